package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Content string  `validate:"required,max=5"`
	Rating  float64 `validate:"gte=1,lte=5"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Content: "hi", Rating: 3}))

	err := Struct(sample{Content: "", Rating: 7})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Content' failed 'required'")
	assert.Contains(t, err.Error(), "field 'Rating' failed 'lte'")
}

func TestUUID(t *testing.T) {
	assert.True(t, UUID("3f2b8c1e-8d4a-4c1b-9e7f-0a1b2c3d4e5f"))
	assert.False(t, UUID(""))
	assert.False(t, UUID("post-1"))
	assert.False(t, UUID("urn:uuid:3f2b8c1e-8d4a-4c1b-9e7f-0a1b2c3d4e5f"))
}
