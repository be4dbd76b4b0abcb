package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineup/internal/model"
)

func TestView_Lookup(t *testing.T) {
	v := NewView([]model.Performer{
		{ID: "p1", Name: "The Midnight Echo", Image: "echo.jpg", Category: "rock"},
		{ID: "p2", Name: "Violet Static"},
	})

	p, ok := v.Performer("p1")
	require.True(t, ok)
	assert.Equal(t, "The Midnight Echo", p.Name)
	assert.Equal(t, "echo.jpg", p.Image)
	assert.Equal(t, "rock", p.Category)

	_, ok = v.Performer("ghost")
	assert.False(t, ok)

	assert.Equal(t, 2, v.Len())
	all := v.All()
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)
}
