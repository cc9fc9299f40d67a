package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeepFirstThree(t *testing.T) {
	assert.Equal(t, "Mar***", KeepFirstThree("Marcos"))
	assert.Equal(t, "Ana", KeepFirstThree("Ana"))
	assert.Equal(t, "", KeepFirstThree(""))
}

func TestKeepLastThree(t *testing.T) {
	assert.Equal(t, "*******890", KeepLastThree("1234567890"))
	assert.Equal(t, "123", KeepLastThree("123"))
	assert.Equal(t, "ab", KeepLastThree("ab"))
}
