package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

func TestListingPatchSet_OnlyProvidedFields(t *testing.T) {
	price := 3200000.0
	name := "Vaca Brahman"

	set := listingPatchSet(models.ListingPatch{
		Name:         &name,
		Price:        &price,
		AppendImages: []string{"https://cdn.example.com/a.jpg"},
	})

	assert.Len(t, set, 2)
	assert.Equal(t, "Vaca Brahman", set["name"])
	assert.Equal(t, 3200000.0, set["price"])
	assert.NotContains(t, set, "images")
}

func TestListingPatchSet_Empty(t *testing.T) {
	assert.Empty(t, listingPatchSet(models.ListingPatch{}))
}
