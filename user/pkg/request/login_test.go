package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginMasksPassword(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestRegisterMasksPassword(t *testing.T) {
	registerReq := Register{Name: "dana", Email: "dana@example.com", Password: "secretpw1"}

	body, err := json.Marshal(registerReq)

	assert.NoError(t, err)
	assert.Contains(t, string(body), `"password":"***"`)
	assert.EqualValues(t, "secretpw1", registerReq.Password)
}
