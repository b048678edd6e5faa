package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppConstants(t *testing.T) {
	assert.Equal(t, "apiserver.yaml", ApiServerYaml)
	assert.Equal(t, "carrousel", AppName)
	assert.Equal(t, "carrousel/apiserver", TraceAPIServer)
}
