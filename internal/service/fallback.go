package service

import (
	"strings"
	"time"

	"github.com/jjenkins/civic/internal/model"
)

// Static datasets served when an upstream is unreachable. Dates are fixed so
// repeated fallbacks upsert identical records.

func fallbackBills() []model.Bill {
	return []model.Bill{
		{
			ID:             "fallback-hr-3684",
			BillNumber:     "H.R. 3684",
			Title:          "Infrastructure Investment and Jobs Act",
			Summary:        "Funds roads, bridges, public transit, water systems and broadband expansion.",
			Status:         model.BillSigned,
			Jurisdiction:   model.Federal,
			IntroducedDate: date(2021, 6, 4),
			LastActionDate: date(2021, 11, 15),
			Sponsor:        "Rep. Peter DeFazio",
			Progress:       model.BillProgress{Introduced: true, Committee: true, Floor: true, Passed: true, Signed: true},
			Categories:     []string{"infrastructure", "transportation"},
			SourceURL:      "https://www.govtrack.us/congress/bills/117/hr3684",
		},
		{
			ID:             "fallback-s-1260",
			BillNumber:     "S. 1260",
			Title:          "United States Innovation and Competition Act",
			Summary:        "Invests in semiconductor manufacturing, research and development.",
			Status:         model.BillPassedSenate,
			Jurisdiction:   model.Federal,
			IntroducedDate: date(2021, 4, 20),
			LastActionDate: date(2021, 6, 8),
			Sponsor:        "Sen. Chuck Schumer",
			Progress:       model.BillProgress{Introduced: true, Committee: true, Floor: true, Passed: true},
			Categories:     []string{"technology", "economy"},
			SourceURL:      "https://www.govtrack.us/congress/bills/117/s1260",
		},
		{
			ID:             "fallback-hr-5376",
			BillNumber:     "H.R. 5376",
			Title:          "Inflation Reduction Act",
			Summary:        "Addresses energy security, climate change and health care costs.",
			Status:         model.BillSigned,
			Jurisdiction:   model.Federal,
			IntroducedDate: date(2021, 9, 27),
			LastActionDate: date(2022, 8, 16),
			Sponsor:        "Rep. John Yarmuth",
			Progress:       model.BillProgress{Introduced: true, Committee: true, Floor: true, Passed: true, Signed: true},
			Categories:     []string{"energy", "health", "taxes"},
			SourceURL:      "https://www.govtrack.us/congress/bills/117/hr5376",
		},
	}
}

func fallbackLegislators() []model.Legislator {
	return []model.Legislator{
		{
			ID:      "fallback-senate-1",
			Name:    "Senior Senator",
			Party:   "Independent",
			State:   "US",
			Chamber: "senate",
			Title:   "Senator",
			Phone:   "202-224-3121",
			Website: "https://www.senate.gov/senators/",
		},
		{
			ID:      "fallback-house-1",
			Name:    "Your Representative",
			Party:   "Independent",
			State:   "US",
			Chamber: "house",
			Title:   "Representative",
			Phone:   "202-225-3121",
			Website: "https://www.house.gov/representatives/find-your-representative",
		},
	}
}

func fallbackNews() []model.NewsArticle {
	return []model.NewsArticle{
		{
			ID:          "fallback-news-1",
			Title:       "How a bill becomes a law",
			Description: "A step-by-step guide to the federal legislative process, from introduction to signature.",
			URL:         "https://www.congress.gov/legislative-process",
			Source:      "Congress.gov",
			Category:    model.NewsExplainer,
			PublishedAt: date(2024, 1, 2),
		},
		{
			ID:          "fallback-news-2",
			Title:       "Find and contact your elected officials",
			Description: "Look up your federal, state and local representatives and how to reach them.",
			URL:         "https://www.usa.gov/elected-officials",
			Source:      "USA.gov",
			Category:    model.NewsExplainer,
			PublishedAt: date(2024, 1, 1),
		},
	}
}

// filterFallbackBills applies the query the live call would have used
func filterFallbackBills(q BillQuery) []model.Bill {
	var out []model.Bill
	for _, b := range fallbackBills() {
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		if q.Query != "" && !strings.Contains(strings.ToLower(b.Title+" "+b.Summary), strings.ToLower(q.Query)) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
