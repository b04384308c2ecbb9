package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swaggercodec/internal/document"
)

func paramsFor(t *testing.T, link *document.Link) []*Parameter {
	t.Helper()
	reg := NewRegistry(CounterSuffix(), nil)
	extractDefinitions([]linkEntry{{Link: link}}, reg)
	return buildParameters(link, link.ResolveEncoding(), reg)
}

func TestParameters_Query(t *testing.T) {
	link := &document.Link{URL: "/users/", Fields: []document.Field{{
		Name:     "email",
		Required: true,
		Location: document.LocationQuery,
		Schema:   document.String{Description: "A valid email address."},
	}}}

	params := paramsFor(t, link)
	require.Len(t, params, 1)
	assert.JSONEq(t, `{
		"name": "email",
		"required": true,
		"in": "query",
		"description": "A valid email address.",
		"type": "string"
	}`, mustJSON(t, params[0]))
}

func TestParameters_PathAndQueryArrays(t *testing.T) {
	link := &document.Link{URL: "/items/{ids}/", Fields: []document.Field{
		{Name: "ids", Required: true, Location: document.LocationPath, Schema: document.Array{Items: document.Integer{}}},
		{Name: "sort", Location: document.LocationQuery, Schema: document.Array{Items: document.NewObject()}},
	}}

	params := paramsFor(t, link)
	require.Len(t, params, 2)
	assert.JSONEq(t, `{
		"name": "ids", "required": true, "in": "path", "description": "",
		"type": "array", "items": {"type": "string"}
	}`, mustJSON(t, params[0]))
	assert.Equal(t, "string", params[1].Items.Type, "item types are not preserved")
	assert.Equal(t, false, *params[1].Required)
}

func TestParameters_Body(t *testing.T) {
	link := &document.Link{Action: "post", URL: "/blobs/", Fields: []document.Field{
		{Name: "payload", Required: true, Location: document.LocationBody, Description: "raw payload"},
	}}

	params := paramsFor(t, link)
	require.Len(t, params, 1)
	assert.JSONEq(t, `{
		"name": "payload", "required": true, "in": "body",
		"description": "raw payload", "schema": {}
	}`, mustJSON(t, params[0]))

	link.Encoding = "application/octet-stream"
	params = paramsFor(t, link)
	assert.JSONEq(t, `{"type": "string", "format": "binary"}`, mustJSON(t, params[0].Schema))
}

func TestParameters_FormFieldsMergeIntoData(t *testing.T) {
	link := &document.Link{Action: "post", URL: "/users/", Fields: []document.Field{
		{Name: "name", Required: true, Location: document.LocationForm, Schema: document.String{Description: "Full name"}},
		{Name: "page", Location: document.LocationQuery, Schema: document.Integer{}},
		{Name: "age", Location: document.LocationForm, Schema: document.Integer{}},
	}}

	params := paramsFor(t, link)
	require.Len(t, params, 2)
	assert.Equal(t, "page", params[0].Name)

	data := params[1]
	assert.Equal(t, "data", data.Name)
	assert.Equal(t, "body", data.In)
	assert.Nil(t, data.Required)
	assert.Nil(t, data.Description)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "description": "Full name"},
			"age": {"type": "integer", "description": ""}
		},
		"required": ["name"]
	}`, mustJSON(t, data.Schema))

	var order []string
	for pair := data.Schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
	}
	assert.Equal(t, []string{"name", "age"}, order)
}

func TestParameters_FormRequiredOmittedWhenEmpty(t *testing.T) {
	link := &document.Link{Action: "post", URL: "/notes/", Fields: []document.Field{
		{Name: "title", Location: document.LocationForm},
		{Name: "body", Location: document.LocationForm},
	}}

	params := paramsFor(t, link)
	require.Len(t, params, 1)
	assert.NotContains(t, mustJSON(t, params[0].Schema), "required")
	assert.Equal(t, 2, params[0].Schema.Properties.Len())
}

func TestParameters_EncodedFormUsesFormData(t *testing.T) {
	for _, enc := range []string{"multipart/form-data", "application/x-www-form-urlencoded"} {
		link := &document.Link{Action: "post", URL: "/upload/", Encoding: enc, Fields: []document.Field{
			{Name: "file", Required: true, Location: document.LocationForm, Schema: document.String{}},
			{Name: "tags", Location: document.LocationForm, Schema: document.Array{Items: document.String{}}},
			{Name: "meta", Location: document.LocationForm, Schema: document.NewObject()},
		}}

		params := paramsFor(t, link)
		require.Len(t, params, 3, enc)
		for _, p := range params {
			assert.Equal(t, "formData", p.In, enc)
			assert.NotEqual(t, "data", p.Name, enc)
		}
		assert.Equal(t, "string", params[0].Type)
		assert.Equal(t, "array", params[1].Type)
		assert.Equal(t, "string", params[1].Items.Type)
		assert.Equal(t, "object", params[2].Type)
	}
}

func TestParameters_FormArrayItems(t *testing.T) {
	link := &document.Link{Action: "post", URL: "/lists/", Fields: []document.Field{
		{Name: "anything", Location: document.LocationForm, Schema: document.Array{}},
		{Name: "numbers", Location: document.LocationForm, Schema: document.Array{Items: document.Number{}}},
		{Name: "unknown", Location: document.LocationForm, Schema: document.Array{Items: document.Anything{}}},
	}}

	params := paramsFor(t, link)
	require.Len(t, params, 1)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"anything": {"type": "array", "description": "", "items": {}},
			"numbers": {"type": "array", "description": "", "items": {"type": "number"}},
			"unknown": {"type": "array", "description": "", "items": {}}
		}
	}`, mustJSON(t, params[0].Schema))
}

func TestParameters_InferredLocation(t *testing.T) {
	get := &document.Link{Action: "GET", URL: "/search/", Fields: []document.Field{{Name: "q"}}}
	params := paramsFor(t, get)
	require.Len(t, params, 1)
	assert.Equal(t, "query", params[0].In)

	post := &document.Link{Action: "post", URL: "/search/", Fields: []document.Field{{Name: "q"}}}
	params = paramsFor(t, post)
	require.Len(t, params, 1)
	assert.Equal(t, "data", params[0].Name)
}

func TestParameters_NoFields(t *testing.T) {
	params := paramsFor(t, &document.Link{URL: "/ping/"})
	require.NotNil(t, params)
	assert.Equal(t, "[]", mustJSON(t, params))
}

func TestParameters_NilPointerItems(t *testing.T) {
	link := &document.Link{Action: "post", URL: "/lists/", Fields: []document.Field{
		{Name: "ids", Location: document.LocationForm, Schema: document.Array{Items: (*document.Integer)(nil)}},
		{Name: "tags", Location: document.LocationForm, Schema: (*document.Array)(nil)},
	}}

	var params []*Parameter
	require.NotPanics(t, func() { params = paramsFor(t, link) })
	require.Len(t, params, 1)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"ids": {"type": "array", "description": "", "items": {}},
			"tags": {"type": "string", "description": ""}
		}
	}`, mustJSON(t, params[0].Schema))
}
