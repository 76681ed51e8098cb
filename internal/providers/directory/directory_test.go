package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/apperr"
)

type fakeSource struct {
	name   string
	people []Person
	err    error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(ctx context.Context, query string) ([]Person, error) {
	return f.people, f.err
}

func TestSearchMergesAndDeduplicates(t *testing.T) {
	alice := Person{ID: "1", Username: "alice", Email: "alice@corp.local"}
	bob := Person{ID: "2", Username: "bob", Email: "bob@corp.local"}

	p := NewProvider(zap.NewNop(),
		&fakeSource{name: "local", people: []Person{alice}},
		&fakeSource{name: "hq", people: []Person{alice, bob}},
	)

	people, err := p.Search(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []Person{alice, bob}, people)
}

func TestSearchPartialFailureKeepsSuccessfulSubset(t *testing.T) {
	alice := Person{ID: "1", Username: "alice", Email: "alice@corp.local"}

	p := NewProvider(zap.NewNop(),
		&fakeSource{name: "local", people: []Person{alice}},
		&fakeSource{name: "branch", err: errors.New("connection refused")},
	)

	people, err := p.Search(context.Background(), "a")
	assert.True(t, apperr.IsKind(err, apperr.KindPartialFailure))
	assert.Equal(t, []Person{alice}, people, "successful subset is still returned")
}

func TestSearchAllSourcesFailed(t *testing.T) {
	p := NewProvider(zap.NewNop(),
		&fakeSource{name: "a", err: errors.New("down")},
		&fakeSource{name: "b", err: errors.New("down")},
	)

	people, err := p.Search(context.Background(), "x")
	assert.Nil(t, people)
	assert.True(t, apperr.IsKind(err, apperr.KindExternalUnavailable))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "smith", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"7","username":"jsmith","email":"jsmith@corp.local","display_name":"J. Smith","department":"IT","title":"Engineer"}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource("hq", srv.URL, time.Second)
	people, err := src.Search(context.Background(), "smith")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "jsmith", people[0].Username)
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource("hq", srv.URL, time.Second)
	_, err := src.Search(context.Background(), "x")
	assert.True(t, apperr.IsKind(err, apperr.KindExternalUnavailable))
}
