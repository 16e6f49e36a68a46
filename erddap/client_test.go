package erddap

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rotblauer/drifters/common"
	"github.com/rotblauer/drifters/conceptual"
	"github.com/rotblauer/drifters/params"
	"github.com/rotblauer/drifters/testing/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var window = params.TimeWindow{
	Start: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
}

// newTestServer serves the range fixture for bounding-box queries and the
// per-id fixture for id queries, recording each raw query.
func newTestServer(t *testing.T, rangeBody, idBody []byte, contentType string) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", contentType)
		if strings.Contains(r.URL.RawQuery, "id=") {
			w.Write(idBody)
			return
		}
		w.Write(rangeBody)
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func testConfig(base string, format params.ErddapFormat) *params.ErddapConfig {
	cfg := params.DefaultErddapConfig()
	cfg.BaseURL = base + "/erddap/tabledap/drifters"
	cfg.Format = format
	return cfg
}

func TestClient_DrifterIDs(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn)()
	srv, queries := newTestServer(t, testdata.MustRead(testdata.Source_ERDDAPRange), nil, "text/csv")
	c := NewClient(testConfig(srv.URL, params.ErddapFormatCSV), srv.Client())

	ids, err := c.DrifterIDs(context.Background(), window, params.RegionPresets[params.DefaultRegion])
	require.NoError(t, err)
	assert.Equal(t, []conceptual.DrifterID{"108410702", "118410701"}, ids)

	require.Len(t, *queries, 1)
	q := (*queries)[0]
	assert.Contains(t, q, "id,time,latitude,longitude")
	assert.Contains(t, q, "time%3E=2010-01-01T00:00:00Z")
	assert.Contains(t, q, "latitude%3E=41&latitude%3C=41.5")
	assert.Contains(t, q, "longitude%3E=-69.75&longitude%3C=-69.33")
	assert.Contains(t, q, "orderBy(%22id,time%22)")
}

func TestClient_LogsDroppedRows(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	defer slog.SetDefault(prev)

	srv, _ := newTestServer(t, testdata.MustRead(testdata.Source_ERDDAPRange), nil, "text/csv")
	c := NewClient(testConfig(srv.URL, params.ErddapFormatCSV), srv.Client())
	_, err := c.DrifterIDs(context.Background(), window, params.RegionPresets[params.DefaultRegion])
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "Dropped repeated ERDDAP rows")
	assert.Contains(t, out, "count=1")
}

func TestClient_Track_CSV(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn)()
	srv, queries := newTestServer(t, nil, testdata.MustRead(testdata.Source_ERDDAPID), "text/csv")
	c := NewClient(testConfig(srv.URL, params.ErddapFormatCSV), srv.Client())

	tr, err := c.Track(context.Background(), "118410701", window)
	require.NoError(t, err)
	assert.Equal(t, conceptual.DrifterID("118410701"), tr.ID)
	// The fix east of 20W is dropped.
	require.Equal(t, 10, tr.Len())
	assert.Equal(t, -70.1, tr.Samples[0].Lon)
	assert.Equal(t, time.Date(2010, 8, 1, 9, 0, 0, 0, time.UTC), tr.End())
	assert.NoError(t, tr.Validate())

	require.Len(t, *queries, 1)
	assert.Contains(t, (*queries)[0], "id=%22118410701%22")
	assert.Contains(t, (*queries)[0], "orderBy(%22time%22)")
}

func TestClient_Track_LonFilterDisabled(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn)()
	srv, _ := newTestServer(t, nil, testdata.MustRead(testdata.Source_ERDDAPID), "text/csv")
	cfg := testConfig(srv.URL, params.ErddapFormatCSV)
	cfg.IDLonFilter = false
	c := NewClient(cfg, srv.Client())

	tr, err := c.Track(context.Background(), "118410701", window)
	require.NoError(t, err)
	assert.Equal(t, 11, tr.Len())
}

func TestClient_Track_JSON(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn)()
	srv, _ := newTestServer(t, nil, testdata.MustRead(testdata.Source_ERDDAPIDJSON), "application/json")
	c := NewClient(testConfig(srv.URL, params.ErddapFormatJSON), srv.Client())

	tr, err := c.Track(context.Background(), "118410701", window)
	require.NoError(t, err)
	require.Equal(t, 10, tr.Len())
	assert.Equal(t, 41.25, tr.Samples[9].Lat)
	assert.Equal(t, -68.6, tr.Samples[9].Lon)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Error {\n    code=404;\n    message=\"Not Found: Your query produced no matching results.\";\n}", http.StatusNotFound)
	}))
	defer srv.Close()
	c := NewClient(testConfig(srv.URL, params.ErddapFormatCSV), srv.Client())

	_, err := c.DrifterIDs(context.Background(), window, params.RegionPresets[params.DefaultRegion])
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "no matching results")
}

func TestClient_EmptyAndMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"empty body", "", ErrEmptyResponse},
		{"header only", "id,time,latitude,longitude\n,UTC,degrees_north,degrees_east\n", ErrEmptyResponse},
		{"missing column", "id,time,latitude\n,UTC,degrees_north\n1,2010-08-01T00:00:00Z,41\n", ErrMalformedResponse},
		{"bad time", "id,time,latitude,longitude\n,UTC,degrees_north,degrees_east\n1,yesterday,41,-70\n", ErrMalformedResponse},
		{"bad number", "id,time,latitude,longitude\n,UTC,degrees_north,degrees_east\n1,2010-08-01T00:00:00Z,NaNx,-70\n", ErrMalformedResponse},
		{"html", "<html><body>maintenance</body></html>", ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()
			c := NewClient(testConfig(srv.URL, params.ErddapFormatCSV), srv.Client())
			_, err := c.Track(context.Background(), "1", window)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := decodeJSON([]byte(`{"table":`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
	_, err = decodeJSON([]byte(`{"rows":[]}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
	_, err = decodeJSON([]byte(`{"table":{"columnNames":["id","time","latitude","longitude"],"rows":[]}}`))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestResolveColumns_Units(t *testing.T) {
	cols, err := resolveColumns([]string{"time (UTC)", "id", "longitude (degrees_east)", "latitude (degrees_north)"})
	require.NoError(t, err)
	assert.Equal(t, columns{id: 1, time: 0, lat: 3, lon: 2}, cols)
}

func TestDedupe(t *testing.T) {
	ts := time.Date(2010, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		{ID: "a", Time: ts, Lat: 1, Lon: 2},
		{ID: "a", Time: ts, Lat: 1, Lon: 2},
		{ID: "b", Time: ts, Lat: 1, Lon: 2},
		{ID: "a", Time: ts.Add(time.Hour), Lat: 1, Lon: 2},
	}
	out, dropped := dedupe(rows)
	assert.Equal(t, 1, dropped)
	require.Len(t, out, 3)
	assert.Equal(t, conceptual.DrifterID("b"), out[1].ID)
}

func TestQueryNumber(t *testing.T) {
	assert.Equal(t, "-70.035594", queryNumber(-70.035594))
	assert.Equal(t, "41", queryNumber(41.0))
	assert.Equal(t, "-69.33", queryNumber(-69.33))
}
