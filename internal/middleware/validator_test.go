package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateJurisdiction(t *testing.T) {
	assert.NoError(t, ValidateJurisdiction("maharashtra_udcpr"))
	assert.NoError(t, ValidateJurisdiction("mumbai_dcpr"))
	assert.NoError(t, ValidateJurisdiction("Maharashtra_UDCPR"))

	assert.Error(t, ValidateJurisdiction(""))
	assert.Error(t, ValidateJurisdiction("karnataka_bbmp"))
}

func TestValidateBatchID(t *testing.T) {
	assert.NoError(t, ValidateBatchID("batch_2026_03.json"))
	assert.NoError(t, ValidateBatchID("candidates-01"))

	assert.Error(t, ValidateBatchID(""))
	assert.Error(t, ValidateBatchID("../secrets"))
	assert.Error(t, ValidateBatchID("staging/batch.json"))
	assert.Error(t, ValidateBatchID("batch with spaces"))
}

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("pune-pmc"))
	assert.NoError(t, ValidateTenantID("tenant_01"))

	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("bad tenant!"))
}

func TestValidateProjectID(t *testing.T) {
	assert.NoError(t, ValidateProjectID("a3bb189e-8bf9-3888-9912-ace4e6543002"))

	assert.Error(t, ValidateProjectID(""))
	assert.Error(t, ValidateProjectID("not-a-uuid"))
}

func TestPaginationDefaults(t *testing.T) {
	assert.Equal(t, 1, ValidatePage(0))
	assert.Equal(t, 1, ValidatePage(-2))
	assert.Equal(t, 3, ValidatePage(3))

	assert.Equal(t, 10, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(1000))
	assert.Equal(t, 25, ValidateLimit(25))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "clean", SanitizeString("  clean  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "line1\nline2", SanitizeString("line1\nline2"))
	assert.Equal(t, "ab", SanitizeString("a\x07b"))
}
