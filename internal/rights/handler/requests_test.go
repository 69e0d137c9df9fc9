package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "mostokey/pkg/domain-errors"
)

func validCreate() *CreateTokenRequest {
	return &CreateTokenRequest{
		Name:          "  My Video Token  ",
		Symbol:        "MVT",
		TotalSupply:   1000,
		PricePerToken: 100,
		VideoURL:      "https://v/mvt",
		Attestation:   "sig:test",
	}
}

func TestCreateTokenRequestValidate(t *testing.T) {
	t.Run("trims and accepts a well-formed request", func(t *testing.T) {
		req := validCreate()
		assert.NoError(t, req.Validate())
		assert.Equal(t, "My Video Token", req.Name)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		mutations := map[string]func(*CreateTokenRequest){
			"name":      func(r *CreateTokenRequest) { r.Name = "  " },
			"symbol":    func(r *CreateTokenRequest) { r.Symbol = "" },
			"video_url": func(r *CreateTokenRequest) { r.VideoURL = "" },
		}
		for field, mutate := range mutations {
			req := validCreate()
			mutate(req)
			err := req.Validate()
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), field)
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("rejects oversized fields", func(t *testing.T) {
		req := validCreate()
		req.Name = strings.Repeat("x", 129)
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))

		req = validCreate()
		req.Symbol = strings.Repeat("x", 33)
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))

		req = validCreate()
		req.VideoURL = "https://v/" + strings.Repeat("x", 2048)
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("supply, price, and attestation semantics are left to the service", func(t *testing.T) {
		req := validCreate()
		req.TotalSupply = 0
		req.PricePerToken = 0
		req.Attestation = ""
		assert.NoError(t, req.Validate())
	})
}
