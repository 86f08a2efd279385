package universities

import (
	"context"
	"strings"

	"github.com/romdo/go-pace/internal/panel"
)

// Searcher is implemented by Client.
type Searcher interface {
	Search(ctx context.Context, country string) ([]University, error)
}

// Fetch searches country with s and logs progress and results to log.
func Fetch(
	ctx context.Context,
	s Searcher,
	log panel.Logger,
	country string,
) ([]University, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		log.Log("Please enter a country name")

		return nil, ErrEmptyCountry
	}

	log.Log("Searching universities for:", country)

	list, err := s.Search(ctx, country)
	if err != nil {
		log.Log("Error fetching data:", err)

		return nil, err
	}

	log.Log("Data received:", len(list), "universities")
	for _, u := range list {
		log.Log("University:", u.Name)
	}

	return list, nil
}
