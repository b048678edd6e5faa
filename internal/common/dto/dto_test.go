package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawSlides_AcceptsStringAndArray(t *testing.T) {
	var fromString CreateCarrouselRequest
	require.NoError(t, json.Unmarshal([]byte(`{"titre":"t","thematique":"x","slides":"[{\"page\":1,\"type\":\"Titre\"}]"}`), &fromString))
	assert.JSONEq(t, `[{"page":1,"type":"Titre"}]`, string(fromString.Slides))

	var fromArray CreateCarrouselRequest
	require.NoError(t, json.Unmarshal([]byte(`{"titre":"t","thematique":"x","slides":[{"page":1,"type":"Titre"}]}`), &fromArray))
	assert.JSONEq(t, `[{"page":1,"type":"Titre"}]`, string(fromArray.Slides))

	var none UpdateCarrouselRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"slides":null}`), &none))
	assert.Nil(t, none.Slides)
	assert.Equal(t, uint(3), none.ID)
}

func TestSmtpConfigResponse_HasNoPassword(t *testing.T) {
	b, err := json.Marshal(SmtpConfigResponse{Host: "smtp.example.org", HasPass: true})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"pass"`)
	assert.Contains(t, string(b), `"hasPass":true`)
}
