package territory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/location"
	"github.com/retailcast/retailcast/internal/model"
)

const storesFixture = `[
	{"id": "INTN00001", "name": "Warangal One", "city": "Warangal", "state": "Telangana"},
	{"id": "INKA00002", "name": "Bengaluru Two", "city": "Bengaluru", "state": "Karnataka"},
	{"id": "INTNHYD01", "name": "Hyderabad Flagship", "city": "Hyderabad", "state": "Telangana"},
	{"id": "INMHPUN11", "name": "Pune Eleven", "city": "Pune", "state": "Maharashtra"}
]`

func fixtureDirectory(t *testing.T) *location.Directory {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, location.StoresFile), []byte(storesFixture), 0o644))
	d, err := location.Load(dir)
	require.NoError(t, err)
	return d
}

func TestEncodeCountry(t *testing.T) {
	code, err := Encode(model.TerritorySelection{Type: model.TerritoryCountry}, fixtureDirectory(t))
	require.NoError(t, err)
	assert.Equal(t, "IN", code)
}

func TestEncodeStatesInSelectionOrder(t *testing.T) {
	dir := fixtureDirectory(t)

	sel := model.TerritorySelection{
		Type:   model.TerritoryState,
		States: []string{"Telangana", "Karnataka"},
	}
	code, err := Encode(sel, dir)
	require.NoError(t, err)
	assert.Equal(t, "INTN,INKA", code)

	// Reversed selection reverses the output.
	sel.States = []string{"Karnataka", "Telangana"}
	code, err = Encode(sel, dir)
	require.NoError(t, err)
	assert.Equal(t, "INKA,INTN", code)
}

func TestEncodeStateFallsBackToNamePrefix(t *testing.T) {
	sel := model.TerritorySelection{Type: model.TerritoryState, States: []string{"Goa"}}
	code, err := Encode(sel, fixtureDirectory(t))
	require.NoError(t, err)
	assert.Equal(t, "INGO", code)
}

func TestEncodeCityCrossProduct(t *testing.T) {
	dir := fixtureDirectory(t)

	sel := model.TerritorySelection{
		Type:   model.TerritoryCity,
		States: []string{"Telangana", "Karnataka"},
		Cities: []string{"Hyderabad", "Shimoga"},
	}
	code, err := Encode(sel, dir)
	require.NoError(t, err)
	// HYD from INTNHYD01's fixed segment, SHI from the city-name fallback.
	assert.Equal(t, "INTNHYD,INTNSHI,INKAHYD,INKASHI", code)
}

func TestEncodeStoreUnionKeepsFirstSeenOrder(t *testing.T) {
	dir := fixtureDirectory(t)

	sel := model.TerritorySelection{
		Type:         model.TerritoryStore,
		PickedStores: []string{"INTN00001", "INKA00002"},
		ManualStores: []string{"INTN00001", "INMHPUN11"},
	}
	code, err := Encode(sel, dir)
	require.NoError(t, err)
	assert.Equal(t, "INTN00001,INKA00002,INMHPUN11", code)
}

func TestEncodeStoreFallsBackToCities(t *testing.T) {
	dir := fixtureDirectory(t)

	sel := model.TerritorySelection{
		Type:   model.TerritoryStore,
		States: []string{"Telangana"},
		Cities: []string{"Hyderabad"},
	}
	code, err := Encode(sel, dir)
	require.NoError(t, err)
	assert.Equal(t, "INTNHYD", code)
}

func TestEncodeIsDeterministic(t *testing.T) {
	dir := fixtureDirectory(t)

	sel := model.TerritorySelection{
		Type:         model.TerritoryStore,
		PickedStores: []string{"INKA00002", "INTN00001", "INKA00002"},
		ManualStores: []string{"INMHPUN11", "INTN00001"},
	}
	first, err := Encode(sel, dir)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := Encode(sel, dir)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestValidateManualID(t *testing.T) {
	dir := fixtureDirectory(t)

	t.Run("accepts known well-formed id", func(t *testing.T) {
		assert.NoError(t, ValidateManualID("INTN00001", dir))
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		for _, id := range []string{"IN1", "XXTN00001", "IN TN0001", ""} {
			err := ValidateManualID(id, dir)
			var verr *errs.ValidationError
			require.ErrorAs(t, err, &verr, "id %q", id)
			assert.Contains(t, verr.Reason, "malformed")
		}
	})

	t.Run("rejects well-formed but absent ids with a distinct reason", func(t *testing.T) {
		err := ValidateManualID("INZZ99999", dir)
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Reason, "not present")
		assert.NotContains(t, verr.Reason, "malformed")
	})
}
