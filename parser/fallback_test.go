package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimpilot-backend/config"
)

func newFallback() *FallbackParser {
	return NewFallbackParser(config.DefaultProcedures)
}

func TestFallbackParse_FullQuery(t *testing.T) {
	parsed := newFallback().Parse(context.Background(), "46-year-old male, knee surgery in Pune, 3-month-old insurance policy")

	require.NotNil(t, parsed.Age)
	assert.Equal(t, 46, *parsed.Age)
	require.NotNil(t, parsed.Gender)
	assert.Equal(t, "male", *parsed.Gender)
	require.NotNil(t, parsed.Procedure)
	assert.Equal(t, "knee surgery", *parsed.Procedure)
	require.NotNil(t, parsed.Location)
	assert.Equal(t, "pune", *parsed.Location)
	require.NotNil(t, parsed.PolicyDurationMonths)
	assert.Equal(t, 3, *parsed.PolicyDurationMonths)
}

func TestFallbackParse_AbbreviatedGender(t *testing.T) {
	parsed := newFallback().Parse(context.Background(), "46M, cardiac surgery in Mumbai, 6 months")

	require.NotNil(t, parsed.Age)
	assert.Equal(t, 46, *parsed.Age)
	require.NotNil(t, parsed.Gender)
	assert.Equal(t, "male", *parsed.Gender)
	require.NotNil(t, parsed.Procedure)
	assert.Equal(t, "cardiac surgery", *parsed.Procedure)
	require.NotNil(t, parsed.PolicyDurationMonths)
	assert.Equal(t, 6, *parsed.PolicyDurationMonths)
}

func TestFallbackParse_AgeLabel(t *testing.T) {
	parsed := newFallback().Parse(context.Background(), "age 30, female, cataract")

	require.NotNil(t, parsed.Age)
	assert.Equal(t, 30, *parsed.Age)
	require.NotNil(t, parsed.Gender)
	assert.Equal(t, "female", *parsed.Gender)
	require.NotNil(t, parsed.Procedure)
	assert.Equal(t, "cataract", *parsed.Procedure)
}

func TestFallbackParse_NoRecognizableFields(t *testing.T) {
	parsed := newFallback().Parse(context.Background(), "I feel unwell")

	assert.Nil(t, parsed.Age)
	assert.Nil(t, parsed.Gender)
	assert.Nil(t, parsed.Procedure)
	assert.Nil(t, parsed.Location)
	assert.Nil(t, parsed.PolicyDurationMonths)
	assert.False(t, parsed.HasProcedure())
}

func TestFallbackParse_Deterministic(t *testing.T) {
	ctx := context.Background()
	p := newFallback()
	query := "62F, hip replacement in Delhi, 12-month policy"

	first := p.Parse(ctx, query)
	second := p.Parse(ctx, query)
	assert.Equal(t, first, second)
}
