package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *SearchBoxClient {
	return NewSearchBoxClient(SearchBoxConfig{
		APIURL:       url,
		AccessToken:  "pk.test",
		SessionToken: "session-1",
		Country:      "AU",
		Proximity:    "144.9631,-37.8136",
		Types:        "address,poi,place",
		Limit:        2,
	})
}

func TestSuggest_SendsQueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/suggest", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "Flinders", q.Get("q"))
		assert.Equal(t, "pk.test", q.Get("access_token"))
		assert.Equal(t, "session-1", q.Get("session_token"))
		assert.Equal(t, "AU", q.Get("country"))
		assert.Equal(t, "144.9631,-37.8136", q.Get("proximity"))
		assert.Equal(t, "address,poi,place", q.Get("types"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.Equal(t, "en", q.Get("language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggestions":[
			{"mapbox_id":"a","name":"Flinders Street Station","full_address":"Flinders St, Melbourne VIC 3000, Australia"},
			{"mapbox_id":"b","name":"Flinders Lane","place_formatted":"Melbourne VIC 3000, Australia"},
			{"mapbox_id":"c","name":"Flinders"}
		]}`))
	}))
	defer server.Close()

	suggestions, err := newTestClient(server.URL).Suggest(context.Background(), "Flinders")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "a", suggestions[0].MapboxID)
	assert.Equal(t, "Melbourne VIC 3000, Australia", suggestions[1].PlaceFormatted)
}

func TestSuggest_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Authorized - Invalid Token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Suggest(context.Background(), "Flinders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSuggest_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Suggest(context.Background(), "Flinders")
	assert.Error(t, err)
}

func TestRetrieve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/retrieve/dXJuOm1ieHBvaQ", r.URL.Path)
		assert.Equal(t, "session-1", r.URL.Query().Get("session_token"))

		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[{
			"type":"Feature",
			"geometry":{"type":"Point","coordinates":[144.843,-37.669]},
			"properties":{"mapbox_id":"dXJuOm1ieHBvaQ","name":"Melbourne Airport","full_address":"Departure Dr, Melbourne Airport VIC 3045, Australia"}
		}]}`))
	}))
	defer server.Close()

	feature, err := newTestClient(server.URL).Retrieve(context.Background(), "dXJuOm1ieHBvaQ")
	require.NoError(t, err)
	assert.Equal(t, "Departure Dr, Melbourne Airport VIC 3045, Australia", feature.Properties.FullAddress)
	assert.Equal(t, []float64{144.843, -37.669}, feature.Geometry.Coordinates)
}

func TestRetrieve_NoFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Retrieve(context.Background(), "x")
	assert.Error(t, err)

	_, err = newTestClient(server.URL).Retrieve(context.Background(), "")
	assert.Error(t, err)
}

func TestSuggest_RespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Suggest(ctx, "Flinders")
	assert.Error(t, err)
}
