package feed

// parse.go: convierte el body del feed en registros de sorteo ordenados.
//
// Se entienden dos formatos:
//   - JSON: un array de objetos {"date", "day", "result"}, o un objeto que
//     envuelve ese array bajo "data".
//   - Texto: un sorteo por línea (texto plano, CSV o tabla HTML; se quitan
//     los tags y cada </tr> termina una línea). Una línea necesita una fecha
//     (YYYY-MM-DD, DD/MM/YYYY o DD-MM-YYYY) y un resultado de cuatro dígitos;
//     si aparece un nombre de día en la línea, se usa.
//
// Los registros se ordenan por fecha; si una fecha se repite, gana la última.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// ResultDigits es el ancho de un resultado publicado.
const ResultDigits = 4

// ErrNoDraws se devuelve cuando el body no tiene ningún sorteo reconocible.
var ErrNoDraws = errors.New("feed: no draws found")

var dateLayouts = []string{
	time.DateOnly,
	"02/01/2006",
	"02-01-2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Parse decodifica el body del feed.
func Parse(body []byte) ([]domain.DrawRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrNoDraws
	}

	var (
		records []domain.DrawRecord
		err     error
	)
	switch trimmed[0] {
	case '[', '{':
		records, err = parseJSON(trimmed)
	default:
		records = parseText(string(trimmed))
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoDraws
	}
	return dedupe(records), nil
}

// --- JSON ---

type jsonDraw struct {
	Date   string     `json:"date"`
	Day    string     `json:"day"`
	Result jsonResult `json:"result"`
}

// jsonResult acepta "0123" y también 123 (con ceros a la izquierda hasta ResultDigits).
type jsonResult string

func (r *jsonResult) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = jsonResult(strings.TrimSpace(s))
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("result must be a string or an integer, got %s", b)
	}
	if n < 0 {
		return fmt.Errorf("negative result %d", n)
	}
	*r = jsonResult(fmt.Sprintf("%0*d", ResultDigits, n))
	return nil
}

func parseJSON(body []byte) ([]domain.DrawRecord, error) {
	var rows []jsonDraw
	if body[0] == '{' {
		var wrapped struct {
			Data []jsonDraw `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("feed.Parse: decode JSON: %w", err)
		}
		rows = wrapped.Data
	} else if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("feed.Parse: decode JSON: %w", err)
	}

	records := make([]domain.DrawRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("feed.Parse: row %d: %w", i, err)
		}
		rec, err := domain.NewDrawRecord(date, row.Day, string(row.Result))
		if err != nil {
			return nil, fmt.Errorf("feed.Parse: row %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", domain.ErrValidation, s)
}

// --- Texto ---

var (
	rowEndRe  = regexp.MustCompile(`(?i)</tr\s*>`)
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	dateRe    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{2}[/-]\d{2}[/-]\d{4})\b`)
	resultRe  = regexp.MustCompile(`\b\d{` + strconv.Itoa(ResultDigits) + `}\b`)
	wordRe    = regexp.MustCompile(`[A-Za-z']+`)
	entityRep = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&#39;", "'")
)

func parseText(body string) []domain.DrawRecord {
	body = rowEndRe.ReplaceAllString(body, "\n")
	body = tagRe.ReplaceAllString(body, " ")
	body = entityRep.Replace(body)

	var records []domain.DrawRecord
	for _, line := range strings.Split(body, "\n") {
		rec, ok := parseLine(line)
		if ok {
			records = append(records, rec)
		}
	}
	return records
}

func parseLine(line string) (domain.DrawRecord, bool) {
	loc := dateRe.FindStringIndex(line)
	if loc == nil {
		return domain.DrawRecord{}, false
	}
	date, err := parseDate(line[loc[0]:loc[1]])
	if err != nil {
		return domain.DrawRecord{}, false
	}

	rest := line[:loc[0]] + " " + line[loc[1]:]
	result := resultRe.FindString(rest)
	if result == "" {
		return domain.DrawRecord{}, false
	}

	day := ""
	for _, word := range wordRe.FindAllString(rest, -1) {
		if _, err := domain.ParseWeekday(word); err == nil {
			day = word
			break
		}
	}

	rec, err := domain.NewDrawRecord(date, day, result)
	if err != nil {
		return domain.DrawRecord{}, false
	}
	return rec, true
}

// --- Orden ---

func dedupe(records []domain.DrawRecord) []domain.DrawRecord {
	byDate := make(map[time.Time]int, len(records))
	out := make([]domain.DrawRecord, 0, len(records))
	for _, r := range records {
		if i, ok := byDate[r.Date]; ok {
			out[i] = r
			continue
		}
		byDate[r.Date] = len(out)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
