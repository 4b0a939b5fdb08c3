package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_Counts(t *testing.T) {
	images := All()

	require.Len(t, images, 1+militaryCount+pearlCount)
	assert.Equal(t, FolderAI, images[0].Folder)
	assert.Len(t, ByFolder(FolderMilitary), militaryCount)
	assert.Len(t, ByFolder(FolderPearl), pearlCount)
	assert.Len(t, ByFolder(FolderAI), 1)
}

func TestAll_ReturnsCopy(t *testing.T) {
	images := All()
	images[0].Src = "mutated"

	assert.NotEqual(t, "mutated", All()[0].Src)
}

func TestByFolder_Paths(t *testing.T) {
	pearl := ByFolder(FolderPearl)

	assert.Equal(t, "/pearl/1.png", pearl[0].Src)
	assert.Equal(t, "/pearl/4.png", pearl[3].Src)
	assert.Equal(t, 4, pearl[3].Index)
	assert.Equal(t, "4.png", pearl[3].Name)
}

func TestRandomFromFolder(t *testing.T) {
	for i := 0; i < 20; i++ {
		img, ok := RandomFromFolder(FolderMilitary)
		require.True(t, ok)
		assert.Equal(t, FolderMilitary, img.Folder)
	}

	_, ok := RandomFromFolder(Folder("unknown"))
	assert.False(t, ok)
}

func TestRandom_IsCatalogMember(t *testing.T) {
	img := Random()
	assert.Contains(t, All(), img)
}

func TestDefaultProductImage(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		expected string
	}{
		{"first military", 0, "/military/1.png"},
		{"second military", 1, "/military/2.png"},
		{"first pearl", 11, "/pearl/1.png"},
		{"wraps around", 15, "/military/1.png"},
		{"negative id", -1, "/military/2.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultProductImage(tt.id))
		})
	}
}
