package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIndex struct {
	built  int
	seeded []models.AdminUnit
	err    error
}

func (s *stubIndex) BuildIndexes() error {
	s.built++
	return s.err
}

func (s *stubIndex) SeedData(units []models.AdminUnit) error {
	s.seeded = units
	return s.err
}

func validUnits() []models.AdminUnit {
	return []models.AdminUnit{
		{AdminID: "ha-noi", Name: "hà nội", Level: models.LevelProvince, AdminSubtype: models.AdminSubtypeMunicipality},
		{AdminID: "quang-ninh", Name: "quảng ninh", Level: models.LevelProvince, AdminSubtype: models.AdminSubtypeProvince},
	}
}

func TestAdminService_ValidateGazetteerData(t *testing.T) {
	as := NewAdminService(nil, nil, nil)

	testCases := []struct {
		name     string
		data     []models.AdminUnit
		passed   bool
		warnings int
	}{
		{name: "Rỗng", data: nil, passed: false, warnings: 1},
		{name: "Hợp lệ", data: validUnits(), passed: true},
		{name: "Trùng ID", data: append(validUnits(), validUnits()[0]), passed: false, warnings: 1},
		{name: "Thiếu trường", data: []models.AdminUnit{{Level: 9, AdminSubtype: "x"}}, passed: false, warnings: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := as.ValidateGazetteerData(tc.data)
			assert.Equal(t, tc.passed, v.Passed)
			assert.Len(t, v.Warnings, tc.warnings)
		})
	}
}

func TestAdminService_SeedGazetteer(t *testing.T) {
	ctx := context.Background()
	index := &stubIndex{}
	as := NewAdminService(index, nil, nil)

	result, err := as.SeedGazetteer(ctx, validUnits(), true, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.UnitsProcessed)
	assert.Equal(t, 2, result.IndexesBuilt)
	assert.Equal(t, 1, index.built)
	assert.Len(t, index.seeded, 2)

	_, err = as.SeedGazetteer(ctx, validUnits(), false, true)
	assert.ErrorIs(t, err, ErrNoDatabase)

	_, err = as.SeedGazetteer(ctx, nil, false, false)
	assert.Error(t, err)

	index.err = errors.New("meilisearch down")
	_, err = as.SeedGazetteer(ctx, validUnits(), false, false)
	assert.ErrorIs(t, err, index.err)
}

func TestAdminService_NoBackends(t *testing.T) {
	as := NewAdminService(nil, nil, nil)

	assert.Error(t, as.BuildIndexes())
	_, err := as.SeedGazetteer(context.Background(), validUnits(), false, false)
	assert.Error(t, err)
	_, err = as.ExportData(context.Background(), "admin_units", 10)
	assert.ErrorIs(t, err, ErrNoDatabase)
}
