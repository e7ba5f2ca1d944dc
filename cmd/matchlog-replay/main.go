package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchlog/internal/core/classify"
	"matchlog/internal/core/events"
	"matchlog/internal/core/summary"
	"matchlog/internal/platform/config"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/store"

	"matchlog/internal/services/facts/repo"
	ingestdom "matchlog/internal/services/ingest/domain"
	ingestsvc "matchlog/internal/services/ingest/service"
	jobsdom "matchlog/internal/services/jobs/domain"
	jobssvc "matchlog/internal/services/jobs/service"
)

func main() {
	var (
		fFile    = flag.String("file", "matches.json", "path to the Hinge matches.json export")
		fUser    = flag.String("user", "local", "user id the facts are recorded for")
		fPersist = flag.Bool("persist", false, "run the real runner against postgres (SERVICE_PGSQL_DBURL)")
		fPace    = flag.Duration("pace", 0, "sleep between events when persisting")
	)
	flag.Parse()

	lo := logger.FromEnv()
	lo.Service = "matchlog-replay"
	logger.Init(lo)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	raw, err := os.ReadFile(*fFile)
	if err != nil {
		l.Fatal().Err(err).Str("file", *fFile).Msg("read export")
	}
	evs, err := events.Decode(raw)
	if err != nil {
		l.Fatal().Err(err).Msg("decode export")
	}
	l.Info().Int("events", len(evs)).Str("file", *fFile).Msg("export loaded")

	if *fPersist {
		persist(ctx, l, *fUser, evs, *fPace)
		return
	}
	report(l, *fUser, evs)
}

// report classifies offline and logs what the summary page would show
func report(l *logger.Logger, userID string, evs []events.Event) {
	step := max(len(evs)/10, 1)
	res := classify.All(evs, userID, func(done, total int) {
		if done%step == 0 || done == total {
			l.Debug().Float64("progress", classify.Progress(done, total)).Msg("classifying")
		}
	})
	for _, is := range res.Issues {
		l.Debug().Err(is).Msg("event issue")
	}

	s := summary.Compute(summary.Input{
		Matches:       res.Matches,
		Likes:         res.Likes,
		Conversations: res.Tally.Conversations,
	})
	ev := l.Info().
		Int("matches", s.Matches).
		Int("likes", s.Likes).
		Int("matches_you_liked", s.MatchesYouLiked).
		Int("matches_they_liked", s.MatchesTheyLiked).
		Int("conversion_percent", s.ConversionPercent).
		Float64("likes_per_day", s.LikesPerDay).
		Float64("matches_per_day", s.MatchesPerDay).
		Int("conversations", s.Conversations).
		Int("first_chats", res.Tally.FirstChats).
		Int("persons", len(res.Persons)).
		Int("issues", len(res.Issues)).
		Interface("like_kinds", s.LikeKinds)
	if s.StartDate != nil {
		ev = ev.Time("start_date", *s.StartDate).Time("end_date", *s.EndDate)
	}
	ev.Msg("summary")
}

// persist runs the upload through the same runner and tracker the API uses
func persist(ctx context.Context, l *logger.Logger, userID string, evs []events.Event, pace time.Duration) {
	cfg := store.FromConfig(config.New())
	if !cfg.PG.Enabled {
		l.Fatal().Msg("-persist needs SERVICE_PGSQL_DBURL")
	}
	st, err := store.Open(ctx, cfg, store.WithLogger(*logger.Named("store")))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := repo.Migrate(ctx, st.PG); err != nil {
		l.Fatal().Err(err).Msg("migrate")
	}

	reg := jobssvc.NewRegistry()
	runner := &ingestsvc.Runner{
		Tracker: reg,
		Store:   repo.NewPG(st.PG, 5*time.Second),
		Pace:    pace,
	}
	snap, err := reg.Create(userID)
	if err != nil {
		l.Fatal().Err(err).Msg("create job")
	}

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, ingestdom.RunArgs{JobID: snap.ID, UserID: userID, Events: evs})
	}()

	notifier := jobssvc.NewNotifier(reg, 250*time.Millisecond)
	err = notifier.Stream(ctx, snap.ID, func(s jobsdom.Snapshot) error {
		l.Info().Str("status", string(s.Status)).Float64("progress", s.Progress).Msg(s.Message)
		return nil
	})
	if err != nil {
		l.Warn().Err(err).Msg("progress stream ended")
	}
	if err := <-done; err != nil {
		l.Error().Err(err).Str("job_id", snap.ID).Msg("replay failed")
		return
	}
	l.Info().Str("job_id", snap.ID).Str("user_id", userID).Msg("replay committed")
}
