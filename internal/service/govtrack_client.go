package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/telemetry"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const adapterGovTrack = "govtrack"

// BillQuery is what the bill listing asks GovTrack for
type BillQuery struct {
	Query  string
	Status model.BillStatus
	Limit  int
	Offset int
}

func (q BillQuery) cacheKey() string {
	return fmt.Sprintf("govtrack:bills:%s:%s:%d:%d", strings.ToLower(q.Query), q.Status, q.Limit, q.Offset)
}

// GovTrackClient fetches federal bills and current legislators from the GovTrack v2 API
type GovTrackClient struct {
	baseURL string
	fetch   *fetcher
	cache   *cache.Cache
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewGovTrackClient creates a new GovTrack API client. Responses are cached in c.
func NewGovTrackClient(cfg config.GovTrackConfig, c *cache.Cache, logger *zap.Logger, metrics *telemetry.Metrics) *GovTrackClient {
	return &GovTrackClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		fetch:   newFetcher(cfg.Timeout, cfg.RateLimit, cfg.Burst),
		cache:   c,
		logger:  logger.Named(adapterGovTrack),
		metrics: metrics,
	}
}

// billsResponse represents the API response for /bill
type billsResponse struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Objects []billJSON `json:"objects"`
}

type billJSON struct {
	ID                int             `json:"id"`
	DisplayNumber     string          `json:"display_number"`
	TitleWithoutNum   string          `json:"title_without_number"`
	Title             string          `json:"title"`
	CurrentStatus     string          `json:"current_status"`
	CurrentStatusDate string          `json:"current_status_date"`
	IntroducedDate    string          `json:"introduced_date"`
	Link              string          `json:"link"`
	Sponsor           json.RawMessage `json:"sponsor"`
	Congress          int             `json:"congress"`
}

// rolesResponse represents the API response for /role
type rolesResponse struct {
	Objects []struct {
		ID     int `json:"id"`
		Person struct {
			ID        int    `json:"id"`
			Name      string `json:"name"`
			FirstName string `json:"firstname"`
			LastName  string `json:"lastname"`
		} `json:"person"`
		Party         string `json:"party"`
		State         string `json:"state"`
		District      *int   `json:"district"`
		RoleType      string `json:"role_type"`
		RoleTypeLabel string `json:"role_type_label"`
		Phone         string `json:"phone"`
		Website       string `json:"website"`
		Extra         struct {
			Address     string `json:"address"`
			ContactForm string `json:"contact_form"`
		} `json:"extra"`
	} `json:"objects"`
}

// BillPage is one page of upstream bills
type BillPage struct {
	Bills []model.Bill
	Total int
}

// Bills returns live bills, or the fallback dataset when GovTrack cannot be reached
func (c *GovTrackClient) Bills(ctx context.Context, q BillQuery) Result[BillPage] {
	key := q.cacheKey()
	if cached, ok := c.cache.Get(key); ok {
		return Live(cached.(BillPage))
	}

	bills, total, err := c.FetchBills(ctx, q)
	if err != nil {
		c.logger.Warn("serving fallback bills", zap.Error(err))
		c.metrics.AdapterCall(adapterGovTrack, string(SourceFallback))
		fb := filterFallbackBills(q)
		return Fallback(BillPage{Bills: fb, Total: len(fb)}, err.Error())
	}

	page := BillPage{Bills: bills, Total: total}
	c.cache.SetDefault(key, page)
	c.metrics.AdapterCall(adapterGovTrack, string(SourceLive))
	return Live(page)
}

// FetchBills retrieves bills ordered by most recently introduced
func (c *GovTrackClient) FetchBills(ctx context.Context, q BillQuery) ([]model.Bill, int, error) {
	params := url.Values{}
	params.Set("order_by", "-introduced_date")
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if codes := govTrackStatusCodes(q.Status); len(codes) > 0 {
		params.Set("current_status__in", strings.Join(codes, "|"))
	}

	body, err := c.fetch.fetchWithRetry(ctx, c.baseURL+"/bill?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bills: %w", err)
	}

	var resp billsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("failed to parse bills response: %w", err)
	}

	bills := make([]model.Bill, 0, len(resp.Objects))
	for _, b := range resp.Objects {
		bills = append(bills, convertBillJSON(b))
	}
	return bills, resp.Meta.TotalCount, nil
}

// Legislators returns current members for a state, falling back to the static directory
func (c *GovTrackClient) Legislators(ctx context.Context, state, district string, limit int) Result[[]model.Legislator] {
	key := fmt.Sprintf("govtrack:roles:%s:%s:%d", strings.ToUpper(state), district, limit)
	if cached, ok := c.cache.Get(key); ok {
		return Live(cached.([]model.Legislator))
	}

	legislators, err := c.FetchLegislators(ctx, state, district, limit)
	if err != nil {
		c.logger.Warn("serving fallback legislators", zap.String("state", state), zap.Error(err))
		c.metrics.AdapterCall(adapterGovTrack, string(SourceFallback))
		return Fallback(fallbackLegislators(), err.Error())
	}

	c.cache.SetDefault(key, legislators)
	c.metrics.AdapterCall(adapterGovTrack, string(SourceLive))
	return Live(legislators)
}

// FetchLegislators retrieves current congressional roles
func (c *GovTrackClient) FetchLegislators(ctx context.Context, state, district string, limit int) ([]model.Legislator, error) {
	params := url.Values{}
	params.Set("current", "true")
	if state != "" {
		params.Set("state", strings.ToUpper(state))
	}
	if district != "" {
		params.Set("district", district)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.fetch.fetchWithRetry(ctx, c.baseURL+"/role?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legislators: %w", err)
	}

	var resp rolesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse roles response: %w", err)
	}

	legislators := make([]model.Legislator, 0, len(resp.Objects))
	for _, r := range resp.Objects {
		name := strings.TrimSpace(r.Person.FirstName + " " + r.Person.LastName)
		if name == "" {
			name = r.Person.Name
		}
		chamber, title := "house", "Representative"
		if r.RoleType == "senator" {
			chamber, title = "senate", "Senator"
		}
		l := model.Legislator{
			ID:       fmt.Sprintf("govtrack-person-%d", r.Person.ID),
			Name:     name,
			Party:    r.Party,
			State:    r.State,
			Chamber:  chamber,
			Title:    title,
			Phone:    r.Phone,
			Website:  r.Website,
			Office:   r.Extra.Address,
			ImageURL: fmt.Sprintf("https://www.govtrack.us/static/legislator-photos/%d-200px.jpeg", r.Person.ID),
		}
		if r.District != nil {
			d := strconv.Itoa(*r.District)
			l.District = &d
		}
		legislators = append(legislators, l)
	}
	return legislators, nil
}

// convertBillJSON maps a GovTrack bill object onto the internal schema
func convertBillJSON(b billJSON) model.Bill {
	title := b.TitleWithoutNum
	if title == "" {
		title = b.Title
	}
	status := billStatusFromGovTrack(b.CurrentStatus)
	bill := model.Bill{
		ID:             fmt.Sprintf("govtrack-%d", b.ID),
		BillNumber:     b.DisplayNumber,
		Title:          title,
		Status:         status,
		Jurisdiction:   model.Federal,
		IntroducedDate: parseDay(b.IntroducedDate),
		LastActionDate: parseDay(b.CurrentStatusDate),
		Sponsor:        sponsorName(b.Sponsor),
		Progress:       progressFor(status),
		Categories:     []string{},
		SourceURL:      b.Link,
	}
	if bill.LastActionDate.IsZero() {
		bill.LastActionDate = bill.IntroducedDate
	}
	if b.Congress > 0 {
		bill.Categories = append(bill.Categories, fmt.Sprintf("congress-%d", b.Congress))
	}
	return bill
}

// sponsorName accepts either an embedded person object or a bare id
func sponsorName(raw json.RawMessage) string {
	var person struct {
		Name string `json:"name"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &person) != nil {
		return ""
	}
	return person.Name
}

func billStatusFromGovTrack(code string) model.BillStatus {
	switch {
	case code == "introduced":
		return model.BillIntroduced
	case code == "referred" || code == "reported":
		return model.BillCommittee
	case code == "pass_over_house" || code == "pass_back_house":
		return model.BillPassedHouse
	case code == "pass_over_senate" || code == "pass_back_senate" || code == "passed_bill" ||
		strings.HasPrefix(code, "conference_passed") || strings.HasPrefix(code, "passed_"):
		return model.BillPassedSenate
	case strings.HasPrefix(code, "enacted"):
		return model.BillSigned
	case strings.Contains(code, "veto"):
		return model.BillVetoed
	case strings.HasPrefix(code, "fail"):
		return model.BillFailed
	}
	return model.BillIntroduced
}

// govTrackStatusCodes is the reverse of billStatusFromGovTrack for query filters
func govTrackStatusCodes(s model.BillStatus) []string {
	switch s {
	case model.BillIntroduced:
		return []string{"introduced"}
	case model.BillCommittee:
		return []string{"referred", "reported"}
	case model.BillPassedHouse:
		return []string{"pass_over_house", "pass_back_house"}
	case model.BillPassedSenate:
		return []string{"pass_over_senate", "pass_back_senate", "passed_bill"}
	case model.BillSigned:
		return []string{"enacted_signed", "enacted_veto_override", "enacted_tendayrule"}
	case model.BillVetoed:
		return []string{"prov_kill_veto", "vetoed_pocket", "vetoed_override_fail_originating_house", "vetoed_override_fail_second_house"}
	case model.BillFailed:
		return []string{"fail_originating_house", "fail_second_house"}
	}
	return nil
}

func progressFor(s model.BillStatus) model.BillProgress {
	p := model.BillProgress{Introduced: true}
	switch s {
	case model.BillCommittee, model.BillFailed:
		p.Committee = true
	case model.BillPassedHouse, model.BillPassedSenate:
		p.Committee, p.Floor, p.Passed = true, true, true
	case model.BillSigned:
		p.Committee, p.Floor, p.Passed, p.Signed = true, true, true, true
	case model.BillVetoed:
		p.Committee, p.Floor, p.Passed = true, true, true
	}
	return p
}

// parseDay reads a YYYY-MM-DD date, returning the zero time when absent or malformed
func parseDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
