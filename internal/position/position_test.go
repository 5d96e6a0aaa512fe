package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionStringWithAndWithoutFilename(t *testing.T) {
	assert.Equal(t, "3:7", Position{Line: 3, Col: 7}.String())
	assert.Equal(t, "a.ael:3:7", Position{Filename: "a.ael", Line: 3, Col: 7}.String())
}

func TestZeroIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.False(t, Position{Line: 0, Col: 0}.IsZero())
}

func TestBeforeOrdersByLineThenColumn(t *testing.T) {
	assert.True(t, Position{Line: 1, Col: 9}.Before(Position{Line: 2, Col: 0}))
	assert.True(t, Position{Line: 2, Col: 1}.Before(Position{Line: 2, Col: 2}))
	assert.False(t, Position{Line: 2, Col: 2}.Before(Position{Line: 2, Col: 1}))
}

func TestErrorListCollectsAndFormats(t *testing.T) {
	var el ErrorList
	assert.False(t, el.HasErrors())

	el.Add(Position{Filename: "f.ael", Line: 1, Col: 0}, Kind(1), "unexpected %q", "}")
	el.AddError(NewError(Position{Filename: "f.ael", Line: 2, Col: 3}, Kind(2), "bad token"))

	assert.True(t, el.HasErrors())
	assert.Len(t, el.Errors, 2)

	msg := el.Error()
	assert.Contains(t, msg, `f.ael:1:0: unexpected "}"`)
	assert.Contains(t, msg, "f.ael:2:3: bad token")
}
