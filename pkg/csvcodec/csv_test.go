package csvcodec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/entrhq/apptcapture/pkg/types"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
}

func sampleLedger() []types.Submission {
	return []types.Submission{
		{
			Timestamp: "2026-06-01T15:04:05.000Z", Type: "NEW APPOINTMENT",
			Name: "Jane Doe", Phone: "555-1212", Date: "06/01", Weekday: "today",
			Time: "2:00 PM", LookingFor: "2021 Honda Civic", Email: "jane@x.com",
			Source: "Facebook", Location: "Austin, TX",
		},
		{
			Timestamp: "2026-06-01T16:10:00.000Z", Type: "RESCHEDULED",
			Name: `John "JJ" Smith`, Phone: "555-0000", Date: "06/02", Weekday: "Tuesday",
			Time: "9:00 AM", LookingFor: "Open to inventory",
		},
	}
}

func TestSerializeGolden(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "ledger", []byte(Serialize(sampleLedger(), fixedNow)))
}

func TestSerializeEmptyLedger(t *testing.T) {
	got := Serialize(nil, fixedNow)
	assert.Equal(t, "Timestamp,Type,Name,Phone,Date,Weekday,Time,Looking For,Email,Source,Location", got)
}

func TestSerializeQuotesEveryCell(t *testing.T) {
	got := Serialize([]types.Submission{{Timestamp: "t"}}, fixedNow)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"t","","","","","","","","","",""`, lines[1])
}

func TestSerializeBackfillsMissingTimestamp(t *testing.T) {
	legacy := []types.Submission{{Name: "Legacy"}}
	got := Serialize(legacy, fixedNow)
	assert.Contains(t, got, "\n\"2026-06-01T18:00:00.000Z\",\"\",\"Legacy\"")
	assert.Equal(t, "", legacy[0].Timestamp, "ledger record must not be modified")
}

func TestRoundTrip(t *testing.T) {
	ledgers := map[string][]types.Submission{
		"sample": sampleLedger(),
		"empty":  nil,
		"multiline cell": {{
			Timestamp: "t", Name: "a,b", LookingFor: "line one\nline two", Source: `""`,
		}},
		"crlf inside cell":     {{Timestamp: "t", LookingFor: "a\r\nb"}},
		"lone carriage return": {{Timestamp: "t", LookingFor: "a\rb", Location: "\r\n"}},
	}

	for name, l := range ledgers {
		t.Run(name, func(t *testing.T) {
			text := Serialize(l, fixedNow)
			parsed, err := Parse(text)
			require.NoError(t, err)
			assert.Equal(t, text, Serialize(parsed, fixedNow))
		})
	}
}

func TestParseKeepsCRLF(t *testing.T) {
	parsed, err := Parse(Serialize([]types.Submission{{Timestamp: "t", LookingFor: "a\r\nb"}}, fixedNow))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "a\r\nb", parsed[0].LookingFor)
}

func TestParseRecoversRecords(t *testing.T) {
	parsed, err := Parse(Serialize(sampleLedger(), fixedNow))
	require.NoError(t, err)
	assert.Equal(t, sampleLedger(), parsed)
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "Timestamp,Type,Name,Phone,Date,Weekday,Time,Looking For,Email,Source,City"},
		{"short row", strings.Join(Header, ",") + "\n\"a\",\"b\""},
		{"unquoted cell", strings.Join(Header, ",") + "\na" + strings.Repeat(",\"\"", 10)},
		{"unterminated quote", strings.Join(Header, ",") + "\n\"a"},
		{"junk after cell", strings.Join(Header, ",") + "\n\"a\"x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}

	_, err := Parse("Timestamp,Type,Name,Phone,Date,Weekday,Time,Looking For,Email,Source,City")
	assert.True(t, errors.Is(err, ErrHeader))
}

func TestFileName(t *testing.T) {
	local := time.Date(2026, 6, 1, 22, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	assert.Equal(t, "HighLevel_Contacts_2026-06-02.csv", FileName(local))
	assert.Equal(t, "HighLevel_Contacts_2026-06-01.csv", FileName(fixedNow()))
}
