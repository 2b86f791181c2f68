package personalization

import (
	"context"
	"errors"

	"estate-backend/internal/application/matching"
	"estate-backend/internal/domain"
	"estate-backend/internal/infrastructure/store"
	"estate-backend/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FallbackPolicy decides what a user without a saved preference receives.
type FallbackPolicy string

const (
	FallbackAll   FallbackPolicy = "all"
	FallbackEmpty FallbackPolicy = "empty"
)

var ErrMissingUser = errors.New("User not found in session")

// Service builds the personalized property feed.
type Service struct {
	Preferences    store.PreferenceStore
	Listings       store.ListingStore
	Fallback       FallbackPolicy
	CandidateLimit int
}

// Feed is the personalized result. Personalized is false when the user had no
// preference and Fallback names the policy that produced Properties.
type Feed struct {
	Personalized bool              `json:"personalized"`
	Fallback     FallbackPolicy    `json:"fallback,omitempty"`
	Properties   []domain.Property `json:"properties"`
	Skipped      []matching.Skip   `json:"skipped,omitempty"`
}

// Personalize loads the user's preference and then the active candidates
// that can satisfy it, and runs the match engine over them. Purpose, type and
// price are pushed into the listing query so the candidate limit only ever
// cuts listings the engine would keep; the engine still decides every rule.
// With explain set, the newest unfiltered candidates are loaded alongside and
// their skip reasons returned.
func (s *Service) Personalize(ctx context.Context, userID uuid.UUID, explain bool) (*Feed, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}

	pref, err := s.Preferences.GetPreference(ctx, userID)
	if err != nil {
		metrics.RecordOutcome(metrics.OutcomeError)
		return nil, err
	}
	if pref == nil {
		return s.fallback(ctx, userID)
	}

	var candidates, window []domain.Property
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.Listings.ListListings(gctx, CandidateFilter(pref, s.CandidateLimit))
		return err
	})
	if explain {
		g.Go(func() error {
			var err error
			window, err = s.Listings.ListListings(gctx, s.activeFilter())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordOutcome(metrics.OutcomeError)
		return nil, err
	}

	logAnomalies(userID, pref, candidates)

	res, _ := matching.Match(pref, candidates)
	for _, skip := range res.Skipped {
		for _, r := range skip.Reasons {
			metrics.SkipReasons.WithLabelValues(string(r)).Inc()
		}
	}
	metrics.RecordOutcome(metrics.OutcomePersonalized)
	metrics.MatchedListings.Observe(float64(len(res.Matched)))
	log.Debug().Str("user_id", userID.String()).
		Int("candidates", len(candidates)).
		Int("matched", len(res.Matched)).
		Msg("personalized feed built")

	feed := &Feed{Personalized: true, Properties: res.Matched}
	if explain {
		diag, _ := matching.Match(pref, window)
		feed.Skipped = diag.Skipped
	}
	return feed, nil
}

// CandidateFilter narrows the active listings to those pref can match on
// purpose, type and price. BOTH and unknown enum values add no constraint.
func CandidateFilter(pref *domain.UserPreference, limit int) store.ListingFilter {
	f := store.ListingFilter{
		Status:   domain.PropertyStatusActive,
		MinPrice: pref.MinPrice,
		MaxPrice: pref.MaxPrice,
		Limit:    limit,
	}
	if purpose, ok := domain.ListingPurposeFor(pref.Purpose); ok {
		f.Purpose = purpose
	}
	if name, ok := domain.TypeNameFor(pref.PropertyType); ok {
		f.TypeName = name
	}
	return f
}

func (s *Service) activeFilter() store.ListingFilter {
	return store.ListingFilter{Status: domain.PropertyStatusActive, Limit: s.CandidateLimit}
}

func (s *Service) fallback(ctx context.Context, userID uuid.UUID) (*Feed, error) {
	log.Debug().Str("user_id", userID.String()).Str("fallback", string(s.policy())).
		Msg("no preference saved, using fallback")
	if s.policy() == FallbackEmpty {
		metrics.RecordOutcome(metrics.OutcomeFallbackNone)
		return &Feed{Fallback: FallbackEmpty, Properties: []domain.Property{}}, nil
	}
	candidates, err := s.Listings.ListListings(ctx, s.activeFilter())
	if err != nil {
		metrics.RecordOutcome(metrics.OutcomeError)
		return nil, err
	}
	metrics.RecordOutcome(metrics.OutcomeFallbackAll)
	if candidates == nil {
		candidates = []domain.Property{}
	}
	return &Feed{Fallback: FallbackAll, Properties: candidates}, nil
}

func (s *Service) policy() FallbackPolicy {
	if s.Fallback == FallbackEmpty {
		return FallbackEmpty
	}
	return FallbackAll
}

// logAnomalies reports data problems operators should fix upstream.
func logAnomalies(userID uuid.UUID, pref *domain.UserPreference, candidates []domain.Property) {
	if pref != nil && pref.InvertedBounds() {
		min, max := pref.PriceBounds()
		log.Warn().Str("user_id", userID.String()).Float64("min_price", min).Float64("max_price", max).
			Msg("preference has min_price above max_price, nothing can match")
	}
	var untyped, badPrice int
	for i := range candidates {
		if _, ok := candidates[i].TypeName(); !ok {
			untyped++
		}
		if candidates[i].Price.Malformed() {
			badPrice++
		}
	}
	if untyped > 0 || badPrice > 0 {
		log.Warn().Int("missing_type", untyped).Int("malformed_price", badPrice).
			Int("candidates", len(candidates)).
			Msg("candidate listings with incomplete data")
	}
}
