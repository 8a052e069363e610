package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/model"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const billsJSON = `{
	"meta": {"total_count": 2},
	"objects": [
		{
			"id": 812345,
			"display_number": "H.R. 1234",
			"title": "H.R. 1234: Clean Water Act",
			"title_without_number": "Clean Water Act",
			"current_status": "referred",
			"current_status_date": "2025-02-10",
			"introduced_date": "2025-01-15",
			"link": "https://www.govtrack.us/congress/bills/119/hr1234",
			"sponsor": {"name": "Rep. Jane Doe [D-CA12]"},
			"congress": 119
		},
		{
			"id": 812346,
			"display_number": "S. 99",
			"title": "S. 99: Broadband for All",
			"current_status": "enacted_signed",
			"introduced_date": "2025-01-03",
			"sponsor": 400123,
			"congress": 119
		}
	]
}`

func newTestGovTrack(t *testing.T, handler http.HandlerFunc) *GovTrackClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGovTrackClient(config.GovTrackConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, cache.New(time.Minute, time.Minute), zap.NewNop(), nil)
	c.fetch.backoff = time.Millisecond
	return c
}

func TestGovTrackClient_Bills(t *testing.T) {
	var hits atomic.Int32
	var gotQuery string
	c := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/bill", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(billsJSON))
	})

	res := c.Bills(context.Background(), BillQuery{Query: "water", Status: model.BillCommittee, Limit: 5})
	require.False(t, res.IsFallback())
	assert.Equal(t, 2, res.Data.Total)
	require.Len(t, res.Data.Bills, 2)

	b := res.Data.Bills[0]
	assert.Equal(t, "govtrack-812345", b.ID)
	assert.Equal(t, "H.R. 1234", b.BillNumber)
	assert.Equal(t, "Clean Water Act", b.Title)
	assert.Equal(t, model.BillCommittee, b.Status)
	assert.Equal(t, model.Federal, b.Jurisdiction)
	assert.Equal(t, "Rep. Jane Doe [D-CA12]", b.Sponsor)
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), b.LastActionDate)
	assert.Equal(t, model.BillProgress{Introduced: true, Committee: true}, b.Progress)
	assert.Equal(t, []string{"congress-119"}, b.Categories)

	signed := res.Data.Bills[1]
	assert.Equal(t, "S. 99: Broadband for All", signed.Title)
	assert.Equal(t, model.BillSigned, signed.Status)
	assert.Empty(t, signed.Sponsor)
	assert.Equal(t, signed.IntroducedDate, signed.LastActionDate)

	assert.Contains(t, gotQuery, "q=water")
	assert.Contains(t, gotQuery, "limit=5")
	assert.Contains(t, gotQuery, "current_status__in=referred%7Creported")

	// second identical query is served from the cache
	again := c.Bills(context.Background(), BillQuery{Query: "water", Status: model.BillCommittee, Limit: 5})
	assert.False(t, again.IsFallback())
	assert.Equal(t, int32(1), hits.Load())
}

func TestGovTrackClient_BillsFallback(t *testing.T) {
	var hits atomic.Int32
	c := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	res := c.Bills(context.Background(), BillQuery{})
	assert.True(t, res.IsFallback())
	assert.NotEmpty(t, res.Reason)
	assert.NotEmpty(t, res.Data.Bills)
	assert.Equal(t, len(res.Data.Bills), res.Data.Total)
	assert.Equal(t, int32(maxRetries), hits.Load())
}

func TestGovTrackClient_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, _, err := c.FetchBills(context.Background(), BillQuery{})
	require.Error(t, err)
	var se *statusError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGovTrackClient_RetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	c := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(billsJSON))
	})

	bills, total, err := c.FetchBills(context.Background(), BillQuery{})
	require.NoError(t, err)
	assert.Len(t, bills, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGovTrackClient_Legislators(t *testing.T) {
	c := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/role", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("current"))
		assert.Equal(t, "CA", r.URL.Query().Get("state"))
		w.Write([]byte(`{"objects": [
			{"person": {"id": 300001, "firstname": "Alex", "lastname": "Padilla"}, "party": "Democrat", "state": "CA", "district": null, "role_type": "senator", "phone": "202-224-3553", "website": "https://www.padilla.senate.gov"},
			{"person": {"id": 412345, "name": "Rep. Sam Lee"}, "party": "Republican", "state": "CA", "district": 12, "role_type": "representative", "extra": {"address": "123 Cannon HOB"}}
		]}`))
	})

	res := c.Legislators(context.Background(), "ca", "", 0)
	require.False(t, res.IsFallback())
	require.Len(t, res.Data, 2)

	sen := res.Data[0]
	assert.Equal(t, "govtrack-person-300001", sen.ID)
	assert.Equal(t, "Alex Padilla", sen.Name)
	assert.Equal(t, "senate", sen.Chamber)
	assert.Nil(t, sen.District)
	assert.Equal(t, "https://www.govtrack.us/static/legislator-photos/300001-200px.jpeg", sen.ImageURL)

	rep := res.Data[1]
	assert.Equal(t, "Rep. Sam Lee", rep.Name)
	assert.Equal(t, "house", rep.Chamber)
	require.NotNil(t, rep.District)
	assert.Equal(t, "12", *rep.District)
	assert.Equal(t, "123 Cannon HOB", rep.Office)
}

func TestGovTrackClient_LegislatorsFallback(t *testing.T) {
	c := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	res := c.Legislators(context.Background(), "TX", "", 0)
	assert.True(t, res.IsFallback())
	assert.Equal(t, fallbackLegislators(), res.Data)
}

func TestBillStatusFromGovTrack(t *testing.T) {
	tests := []struct {
		code string
		want model.BillStatus
	}{
		{"introduced", model.BillIntroduced},
		{"reported", model.BillCommittee},
		{"pass_over_house", model.BillPassedHouse},
		{"passed_bill", model.BillPassedSenate},
		{"conference_passed_house", model.BillPassedSenate},
		{"enacted_signed", model.BillSigned},
		{"prov_kill_veto", model.BillVetoed},
		{"fail_second_senate", model.BillFailed},
		{"something_new", model.BillIntroduced},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, billStatusFromGovTrack(tt.code))
		})
	}
}
