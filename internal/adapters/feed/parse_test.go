package feed_test

import (
	"testing"

	"github.com/alejandrodnm/bbfs/internal/adapters/feed"
	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_JSONArray(t *testing.T) {
	body := `[
		{"date": "2024-01-02", "day": "Selasa", "result": "4821"},
		{"date": "2024-01-01", "day": "Senin",  "result": "0712"}
	]`

	recs, err := feed.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "0712", recs[0].Result, "sorted by date")
	assert.Equal(t, domain.Senin, recs[0].Weekday)
	assert.Equal(t, "4821", recs[1].Result)
	assert.Equal(t, "21", recs[1].Suffix2())
}

func TestParse_JSONWrappedAndNumeric(t *testing.T) {
	body := `{"data": [
		{"date": "01/02/2024", "result": 712},
		{"date": "2024-02-02T00:00:00+07:00", "day": "jumat", "result": "9930"}
	]}`

	recs, err := feed.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "0712", recs[0].Result)
	assert.Equal(t, domain.Kamis, recs[0].Weekday, "derived from 2024-02-01")
	assert.Equal(t, 2, recs[1].Date.Day())
	assert.Equal(t, domain.Jumat, recs[1].Weekday)
}

func TestParse_JSONErrors(t *testing.T) {
	cases := map[string]string{
		"bad date":    `[{"date": "yesterday", "result": "1234"}]`,
		"bad day":     `[{"date": "2024-01-01", "day": "Funday", "result": "1234"}]`,
		"bad result":  `[{"date": "2024-01-01", "result": "12a4"}]`,
		"bool result": `[{"date": "2024-01-01", "result": true}]`,
		"malformed":   `[{"date": "2024-01-01"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := feed.Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestParse_TextLines(t *testing.T) {
	body := `No,Tanggal,Hari,Result
1,2024-01-01,Senin,0712
2,02/01/2024,Selasa,4821
garbage line without a draw
3,03-01-2024,,5566
`

	recs, err := feed.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "0712", recs[0].Result)
	assert.Equal(t, domain.Selasa, recs[1].Weekday)
	assert.Equal(t, "5566", recs[2].Result)
	assert.Equal(t, domain.Rabu, recs[2].Weekday, "derived when missing")
}

func TestParse_HTMLTable(t *testing.T) {
	body := `<html><body><table>
<tr><th>Tanggal</th><th>Hari</th><th>Result</th></tr>
<tr><td>2024-01-02</td><td>Selasa</td><td>4821</td></tr><tr><td>2024-01-01</td><td>Senin</td><td>0712</td></tr>
</table></body></html>`

	recs, err := feed.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "0712", recs[0].Result)
	assert.Equal(t, "4821", recs[1].Result)
}

func TestParse_DuplicateDateLastWins(t *testing.T) {
	body := `2024-01-01 Senin 1111
2024-01-02 Selasa 2222
2024-01-01 Senin 3333
`
	recs, err := feed.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "3333", recs[0].Result)
	assert.Equal(t, "2222", recs[1].Result)
}

func TestParse_NoDraws(t *testing.T) {
	for _, body := range []string{"", "   ", "nothing here", "[]", `{"data": []}`} {
		_, err := feed.Parse([]byte(body))
		assert.ErrorIs(t, err, feed.ErrNoDraws, body)
	}
}
