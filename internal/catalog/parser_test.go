package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seminary/internal/catalog"
)

const venuesCSV = `Nom,équipements,photo_reference,place_id,COMPLET
Le Grand Hôtel,"Wifi, projecteur",ref-a||||ref-b||||,ChIJ-grand,"Capacité: 120
Type: Hôtel 4 étoiles
Adresse: 17 rue de la Gare, 88400 Gérardmer
Image URL: https://img.example/grand.jpg
Prix par personne: 85 € HT"
Domaine du Lac,Paperboard,,,"Type: Domaine
Adresse: 3 chemin du Lac, 88000 Épinal"
Sans Bloc,Wifi,ref-z,ChIJ-none,
`

func TestParseVenues_ExtractsPresentLabels(t *testing.T) {
	venues := catalog.ParseVenues(strings.NewReader(venuesCSV))
	require.Len(t, venues, 2, "row without composite block is skipped")

	grand := venues[0]
	assert.Equal(t, "Le Grand Hôtel", grand.Name)
	require.NotNil(t, grand.Capacity)
	assert.Equal(t, 120, *grand.Capacity)
	require.NotNil(t, grand.Type)
	assert.Equal(t, "Hôtel 4 étoiles", *grand.Type)
	require.NotNil(t, grand.Address)
	assert.Equal(t, "17 rue de la Gare, 88400 Gérardmer", *grand.Address)
	require.NotNil(t, grand.ImageURL, "image label is case-insensitive")
	assert.Equal(t, "https://img.example/grand.jpg", *grand.ImageURL)
	require.NotNil(t, grand.Price)
	assert.Equal(t, "85 € HT", *grand.Price)
	assert.Equal(t, []string{"ref-a", "ref-b"}, grand.Photos)
	assert.Equal(t, "ChIJ-grand", grand.PlaceID)
	assert.Equal(t, "Wifi, projecteur", grand.Equipment)
}

func TestParseVenues_OmitsAbsentLabels(t *testing.T) {
	venues := catalog.ParseVenues(strings.NewReader(venuesCSV))
	require.Len(t, venues, 2)

	lac := venues[1]
	assert.Nil(t, lac.Capacity)
	assert.Nil(t, lac.Price)
	assert.Nil(t, lac.ImageURL)
	require.NotNil(t, lac.Type)
	assert.Equal(t, "Domaine", *lac.Type)
	assert.Empty(t, lac.Photos)
	assert.Empty(t, lac.PlaceID)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParseVenues_FailsSoft(t *testing.T) {
	assert.Empty(t, catalog.ParseVenues(failingReader{}))
	assert.Empty(t, catalog.ParseVenues(strings.NewReader("")))
	assert.Empty(t, catalog.ParseVenues(strings.NewReader("Nom,place_id\nX,Y\n")), "no composite column")
	assert.Empty(t, catalog.LoadVenues("/does/not/exist.csv"))
}

const activitiesCSV = `Randonnée,Sentier des Roches
,Tour du lac de Gérardmer
,
Bien-être,Thermes de Plombières
,Spa du Lac
Culture,
,Musée de l'Image
`

func TestParseActivities_PreservesOrder(t *testing.T) {
	cat := catalog.ParseActivities(strings.NewReader(activitiesCSV))

	assert.Equal(t, []string{"Randonnée", "Bien-être", "Culture"}, cat.Categories())
	assert.Equal(t, []string{"Sentier des Roches", "Tour du lac de Gérardmer"}, cat.Activities("Randonnée"))
	assert.Equal(t, []string{"Thermes de Plombières", "Spa du Lac"}, cat.Activities("Bien-être"))
	assert.Equal(t, []string{"Musée de l'Image"}, cat.Activities("Culture"))
}

func TestParseActivities_IgnoresActivityBeforeCategory(t *testing.T) {
	cat := catalog.ParseActivities(strings.NewReader(",Orphan activity\nSport,Escalade\n"))

	assert.Equal(t, []string{"Sport"}, cat.Categories())
	assert.Equal(t, []string{"Escalade"}, cat.Activities("Sport"))
}

func TestParseActivities_RestartResetsList(t *testing.T) {
	cat := catalog.ParseActivities(strings.NewReader("A,one\nB,two\nA,three\n"))

	assert.Equal(t, []string{"A", "B"}, cat.Categories())
	assert.Equal(t, []string{"three"}, cat.Activities("A"))
}

func TestParseActivities_FailsSoft(t *testing.T) {
	assert.Equal(t, 0, catalog.ParseActivities(failingReader{}).Len())
	assert.Equal(t, 0, catalog.LoadActivities("/does/not/exist.csv").Len())
}
