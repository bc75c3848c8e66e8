package refresh

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-refresh-service/internal/domain/games"
	"github.com/preston-bernstein/nba-refresh-service/internal/domain/players"
	"github.com/preston-bernstein/nba-refresh-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
	"github.com/preston-bernstein/nba-refresh-service/internal/poller"
	"github.com/preston-bernstein/nba-refresh-service/internal/providers"
	"github.com/preston-bernstein/nba-refresh-service/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-refresh-service/internal/timeutil"
)

const (
	defaultInterval = 30 * time.Second
	// Bounds how many season-listing pages one live-games refresh walks.
	defaultMaxPages = 5
	// Caps concurrent season-average lookups per player search.
	maxAverageLookups = 5
)

// Options configure a Service. Only Fetcher is required.
type Options struct {
	Fetcher  providers.Fetcher
	Retrier  *providers.Retrier
	Provider string
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	Clock    func() time.Time
	Location *time.Location
	// Season is the upstream season year; zero derives it from the clock.
	Season int
	// MaxPages caps the season pages read per live-games refresh; zero means 5.
	MaxPages  int
	Interval  time.Duration
	Retries   int
	RetryStep time.Duration
	WarmStart bool
}

// Service fetches basketball data from the upstream, maps it to domain records and publishes
// each result to the topic subscribers.
type Service struct {
	fetcher  providers.Fetcher
	retrier  *providers.Retrier
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
	loc      *time.Location
	season   int
	maxPages int
	hub      *Hub
	live     *poller.Poller
}

// New builds a Service with defaults for anything left unset.
func New(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	if opts.Retrier == nil {
		opts.Retrier = providers.NewRetrier(providers.RetryConfig{
			Provider: opts.Provider,
			Attempts: opts.Retries,
			Step:     opts.RetryStep,
			Logger:   opts.Logger,
			Metrics:  opts.Metrics,
		})
	}

	s := &Service{
		fetcher:  opts.Fetcher,
		retrier:  opts.Retrier,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		now:      opts.Clock,
		loc:      opts.Location,
		season:   opts.Season,
		maxPages: opts.MaxPages,
		hub:      NewHub(opts.Logger, opts.Metrics),
	}
	s.live = poller.New(s.refreshLiveGames, poller.Options{
		Name:      "live-games",
		Interval:  opts.Interval,
		WarmStart: opts.WarmStart,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})
	return s
}

// FetchWithRetry fetches endpoint with up to retries attempts (the configured default when
// retries <= 0) and linear backoff between them. It returns the last error once attempts run out.
func (s *Service) FetchWithRetry(ctx context.Context, endpoint string, retries int) ([]byte, error) {
	return s.retrier.Fetch(ctx, s.fetcher, endpoint, retries)
}

// Subscribe registers cb on topic.
func (s *Service) Subscribe(topic Topic, cb Callback) Subscription {
	return s.hub.Subscribe(topic, cb)
}

// Unsubscribe removes one registration.
func (s *Service) Unsubscribe(sub Subscription) bool {
	return s.hub.Unsubscribe(sub)
}

// Notify publishes data to the topic's subscribers synchronously.
func (s *Service) Notify(topic Topic, data any) {
	s.hub.Notify(topic, data)
}

// LiveGames returns today's games and publishes them. Failures yield an empty list and no
// notification.
func (s *Service) LiveGames(ctx context.Context) []games.Game {
	list, err := s.fetchLiveGames(ctx)
	if err != nil {
		s.logFailure(ctx, "failed to fetch live games", err)
		return []games.Game{}
	}
	s.Notify(TopicLiveGames, list)
	return list
}

// PlayerStats searches players by name and attaches each one's season averages. Any failure
// yields an empty list and no notification.
func (s *Service) PlayerStats(ctx context.Context, query string) []players.Stats {
	list, err := s.fetchPlayerStats(ctx, query)
	if err != nil {
		s.logFailure(ctx, "failed to fetch player stats", err, "query", query)
		return []players.Stats{}
	}
	s.Notify(TopicPlayerStats, list)
	return list
}

// TeamStats returns a team's metadata with averages computed from its games, or nil on failure.
func (s *Service) TeamStats(ctx context.Context, teamID int) *teams.Stats {
	stats, err := s.fetchTeamStats(ctx, teamID)
	if err != nil {
		s.logFailure(ctx, "failed to fetch team stats", err, "team_id", teamID)
		return nil
	}
	s.Notify(TopicTeamStats, stats)
	return stats
}

// UpcomingGames returns games from today onwards. Failures yield an empty list and no
// notification.
func (s *Service) UpcomingGames(ctx context.Context) []games.Scheduled {
	list, err := s.fetchSchedule(ctx)
	if err != nil {
		s.logFailure(ctx, "failed to fetch upcoming games", err)
		return []games.Scheduled{}
	}
	s.Notify(TopicSchedule, list)
	return list
}

// StartLiveUpdates starts the periodic live-games refresh. It reports false when updates were
// already started.
func (s *Service) StartLiveUpdates(ctx context.Context) bool {
	return s.live.Start(ctx)
}

// StopLiveUpdates stops the periodic refresh and waits for an in-flight cycle to finish.
func (s *Service) StopLiveUpdates(ctx context.Context) error {
	return s.live.Stop(ctx)
}

// LiveUpdatesStatus reports the health of the periodic refresh.
func (s *Service) LiveUpdatesStatus() poller.Status {
	return s.live.Status()
}

// refreshLiveGames is one poll cycle: it always republishes, with an empty list on failure,
// and hands the error to the poller for its status.
func (s *Service) refreshLiveGames(ctx context.Context) (int, error) {
	list, err := s.fetchLiveGames(ctx)
	if err != nil {
		list = []games.Game{}
	}
	s.Notify(TopicLiveGames, list)
	return len(list), err
}

// fetchLiveGames walks the season listing page by page, up to maxPages, keeping today's games.
// A failure on any page fails the whole refresh.
func (s *Service) fetchLiveGames(ctx context.Context) ([]games.Game, error) {
	now := s.now().In(s.loc)
	season := s.seasonFor(now)
	day := timeutil.Today(now, s.loc)

	out := []games.Game{}
	cursor := 0
	for page := 1; ; page++ {
		body, err := s.FetchWithRetry(ctx, balldontlie.SeasonGamesPage(season, cursor), 0)
		if err != nil {
			return nil, err
		}
		list, next, err := balldontlie.DecodeLiveGamesPage(body, day, s.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
		if next <= 0 || next == cursor {
			return out, nil
		}
		if page >= s.maxPages {
			logging.Debug(s.logger, "season page cap reached",
				logging.FieldCount, page,
				"next_cursor", next,
			)
			return out, nil
		}
		cursor = next
	}
}

func (s *Service) fetchPlayerStats(ctx context.Context, query string) ([]players.Stats, error) {
	body, err := s.FetchWithRetry(ctx, balldontlie.SearchPlayers(query), 0)
	if err != nil {
		return nil, err
	}
	found, err := balldontlie.DecodePlayers(body)
	if err != nil {
		return nil, err
	}

	out := make([]players.Stats, len(found))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxAverageLookups)
	for i, p := range found {
		i, p := i, p
		g.Go(func() error {
			body, err := s.FetchWithRetry(gctx, balldontlie.SeasonAverages(p.ID), 0)
			if err != nil {
				return err
			}
			avg, err := balldontlie.DecodeSeasonAverage(body)
			if err != nil {
				return err
			}
			out[i] = avg.Apply(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) fetchTeamStats(ctx context.Context, teamID int) (*teams.Stats, error) {
	body, err := s.FetchWithRetry(ctx, balldontlie.Team(teamID), 0)
	if err != nil {
		return nil, err
	}
	team, err := balldontlie.DecodeTeam(body)
	if err != nil {
		return nil, err
	}

	body, err = s.FetchWithRetry(ctx, balldontlie.TeamGames(teamID), 0)
	if err != nil {
		return nil, err
	}
	results, err := balldontlie.DecodeGameResults(body)
	if err != nil {
		return nil, err
	}

	stats := teams.NewStats(team, teams.CalculateTeamStats(results, teamID))
	return &stats, nil
}

func (s *Service) fetchSchedule(ctx context.Context) ([]games.Scheduled, error) {
	today := timeutil.Today(s.now(), s.loc)
	body, err := s.FetchWithRetry(ctx, balldontlie.GamesFrom(today), 0)
	if err != nil {
		return nil, err
	}
	return balldontlie.DecodeSchedule(body, s.loc)
}

func (s *Service) seasonFor(now time.Time) int {
	if s.season > 0 {
		return s.season
	}
	return timeutil.SeasonFor(now)
}

func (s *Service) logFailure(ctx context.Context, msg string, err error, args ...any) {
	logging.Error(logging.FromContext(ctx, s.logger), msg, err, args...)
}
