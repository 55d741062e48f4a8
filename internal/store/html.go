package store

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/domain"
)

// parseHTML reads jobs back out of a rendered listing page. Each posting is
// a .job-item; tags carry data-category="language" or "tool". An untyped
// tag fails the whole page.
func parseHTML(r io.Reader) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrMalformed, err)
	}

	items := doc.Find(".job-item")
	if items.Length() == 0 {
		return nil, fmt.Errorf("%w: no .job-item elements", ErrMalformed)
	}

	jobs := make([]domain.Job, 0, items.Length())
	var perr error
	items.EachWithBreak(func(i int, s *goquery.Selection) bool {
		j := domain.Job{
			Company:   cleanText(s.Find(".company").First().Text()),
			Logo:      strings.TrimSpace(s.Find("img.logo").First().AttrOr("src", "")),
			New:       s.Find(".new").Length() > 0,
			Featured:  s.Find(".featured").Length() > 0,
			Position:  cleanText(s.Find(".position").First().Text()),
			Role:      strings.TrimSpace(s.AttrOr("data-role", "")),
			Level:     strings.TrimSpace(s.AttrOr("data-level", "")),
			PostedAt:  cleanText(s.Find(".posted-at").First().Text()),
			Contract:  cleanText(s.Find(".contract").First().Text()),
			Location:  cleanText(s.Find(".location").First().Text()),
			Languages: []string{},
			Tools:     []string{},
		}
		if raw, ok := s.Attr("data-id"); ok {
			id, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				perr = fmt.Errorf("%w: job %d has bad data-id %q", ErrMalformed, i, raw)
				return false
			}
			j.ID = id
		}

		s.Find(".job-tags .tag").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			tag := cleanText(t.Text())
			switch t.AttrOr("data-category", "") {
			case "language":
				j.Languages = append(j.Languages, tag)
			case "tool":
				j.Tools = append(j.Tools, tag)
			default:
				perr = fmt.Errorf("%w: job %d tag %q has no category", ErrMalformed, i, tag)
				return false
			}
			return true
		})
		if perr != nil {
			return false
		}

		jobs = append(jobs, j)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	if err := validate(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
