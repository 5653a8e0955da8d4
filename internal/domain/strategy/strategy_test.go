package strategy

import (
	"testing"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T, size int) *WeekdayFrequency {
	t.Helper()
	g, err := NewWeekdayFrequency(WeekdayFrequencyConfig{Size: size, Weights: DefaultWeights()})
	require.NoError(t, err)
	return g
}

func TestWeekdayFrequency_KnownInputs(t *testing.T) {
	g := newDefault(t, 7)

	set, err := g.Generate("12", domain.Senin)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 4 6 7 8", set.String())

	set, err = g.Generate("55", domain.Rabu)
	require.NoError(t, err)
	assert.Equal(t, "0 1 2 3 5 8 9", set.String())
}

func TestWeekdayFrequency_Deterministic(t *testing.T) {
	g := newDefault(t, 7)
	for w := domain.Minggu; w <= domain.Sabtu; w++ {
		for n := 0; n < 100; n++ {
			input := string([]byte{byte('0' + n/10), byte('0' + n%10)})
			first, err := g.Generate(input, w)
			require.NoError(t, err)
			second, err := g.Generate(input, w)
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Equal(t, 7, first.Len())

			a, b, _ := ParseInput2D(input)
			assert.True(t, first.Contains(a), "input digits always rank first")
			assert.True(t, first.Contains(b))
		}
	}
}

func TestWeekdayFrequency_SizeBounds(t *testing.T) {
	g := newDefault(t, 0)
	assert.Equal(t, DefaultSize, g.Size())

	g = newDefault(t, 10)
	set, err := g.Generate("00", domain.Minggu)
	require.NoError(t, err)
	assert.Equal(t, 10, set.Len())

	_, err = NewWeekdayFrequency(WeekdayFrequencyConfig{Size: 11})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewWeekdayFrequency(WeekdayFrequencyConfig{Size: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWeekdayFrequency_WeekdayChangesRanking(t *testing.T) {
	g := newDefault(t, 6)
	differs := false
	base, err := g.Generate("19", domain.Senin)
	require.NoError(t, err)
	for w := domain.Minggu; w <= domain.Sabtu; w++ {
		set, err := g.Generate("19", w)
		require.NoError(t, err)
		if set != base {
			differs = true
		}
	}
	assert.True(t, differs)
}

func TestGenerate_RejectsMalformedInput(t *testing.T) {
	fixed, err := NewFixed(1, 2, 3)
	require.NoError(t, err)
	generators := []Generator{newDefault(t, 7), fixed}

	for _, g := range generators {
		for _, input := range []string{"", "1", "123", "1a", " 1", "١٢"} {
			_, err := g.Generate(input, domain.Senin)
			assert.ErrorIs(t, err, domain.ErrValidation, "%s %q", g.Name(), input)
		}
		_, err := g.Generate("12", domain.Weekday(7))
		assert.ErrorIs(t, err, domain.ErrValidation, g.Name())
	}
}

func TestGenerateLabel(t *testing.T) {
	g := newDefault(t, 7)

	set, err := GenerateLabel(g, "12", "senin")
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 4 6 7 8", set.String())

	_, err = GenerateLabel(g, "12", "Noday")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFixed(t *testing.T) {
	g, err := NewFixed(6, 5, 4, 3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, NameFixed, g.Name())
	assert.Equal(t, 6, g.Size())

	set, err := g.Generate("99", domain.Sabtu)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 4 5 6", set.String())

	_, err = NewFixed()
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewFixed(12)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegistry_Build(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{NameFixed, NameWeekdayFrequency}, r.Names())

	g, err := r.Build(Config{Name: NameWeekdayFrequency, Size: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, g.Size())

	g, err = r.Build(Config{Name: NameFixed, FixedDigits: []int{0, 9}})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Size())

	_, err = r.Build(Config{Name: "martingale"})
	assert.Error(t, err)

	_, err = r.Build(Config{Name: NameWeekdayFrequency, Size: 42})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegistry_CustomWeights(t *testing.T) {
	custom := DefaultWeights()
	custom.Version = "flat"
	for w := range custom.Rows {
		custom.Rows[w] = [10]float64{}
	}

	g, err := NewRegistry().Build(Config{Name: NameWeekdayFrequency, Size: 5, Weights: &custom})
	require.NoError(t, err)
	assert.Equal(t, "flat", g.(*WeekdayFrequency).Version())

	// flat table: 1,2 inputs; 6,7 partners; 3 digit sum.
	set, err := g.Generate("12", domain.Kamis)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 6 7", set.String())
}
