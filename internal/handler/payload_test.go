package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayload_Value(t *testing.T) {
	p := Payload{
		"user": "u1",
		"data": map[string]any{
			"data": map[string]any{"level_num": json.Number("2")},
			"list": []any{1},
		},
		"nothing": nil,
	}

	assert.Equal(t, "u1", p.Value("user"))
	assert.Equal(t, json.Number("2"), p.Value("data", "data", "level_num"))
	assert.Nil(t, p.Value("missing", "deeper"))
	assert.Nil(t, p.Value("user", "not_an_object"))
	assert.Nil(t, p.Value("nothing", "x"))
	assert.Nil(t, p.Value("data", "list", "0"))
}

func TestPayload_MapOnMissing(t *testing.T) {
	var p Payload

	assert.Nil(t, p.Map("data"))
	assert.Equal(t, "", p.Map("data").String("user"))
	assert.Nil(t, p.Map("data").Map("data").Number("id"))
}

func TestPayload_String(t *testing.T) {
	p := Payload{
		"s":   "text",
		"n":   json.Number("42"),
		"b":   true,
		"obj": map[string]any{},
	}

	assert.Equal(t, "text", p.String("s"))
	assert.Equal(t, "42", p.String("n"))
	assert.Equal(t, "", p.String("b"))
	assert.Equal(t, "", p.String("obj"))
	assert.Equal(t, "", p.String("absent"))
}

func TestPayload_Number(t *testing.T) {
	p := Payload{
		"int":   json.Number("7"),
		"float": json.Number("1.5"),
		"plain": 3,
		"str":   "7",
	}

	assert.Equal(t, int64(7), p.Number("int"))
	assert.Equal(t, 1.5, p.Number("float"))
	assert.Equal(t, 3, p.Number("plain"))
	assert.Nil(t, p.Number("str"))
	assert.Nil(t, p.Number("absent"))
}
