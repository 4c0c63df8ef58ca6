// internal/infra/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/opisboy29/discord-dsu-bot/internal/app"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/dsu"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/schedule"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/metrics"
)

// Defaults are substituted when a configured expression fails validation, so
// a typo in one variable degrades to the documented schedule instead of
// keeping the bot from starting.
const (
	DefaultMorningCron = "0 9 * * 1-5"
	DefaultEveningCron = "0 17 * * 1-5"
)

// fireTimeout bounds a single scheduled dispatch end to end.
const fireTimeout = time.Minute

// triggerRegistration tracks one recurring trigger from its configured
// expression to the live cron entry.
type triggerRegistration struct {
	kind       dsu.Kind
	expression string
	entryID    cron.EntryID
}

// DSUScheduler owns the two recurring DSU triggers. All cron evaluation
// happens in the configured timezone; the weekday gate re-checks the wall
// clock at fire time.
type DSUScheduler struct {
	cronEngine *cron.Cron
	dispatcher app.Dispatcher
	log        *logrus.Entry
	loc        *time.Location
	channelID  string

	// nowFunc is swapped in tests to pin the weekday gate to a known day.
	nowFunc func() time.Time

	mu       sync.Mutex
	running  bool
	triggers []*triggerRegistration
}

func New(cfg *config.AppConfig, dispatcher app.Dispatcher, loc *time.Location, logger *logrus.Entry) *DSUScheduler {
	return &DSUScheduler{
		cronEngine: cron.New(cron.WithLocation(loc)),
		dispatcher: dispatcher,
		log:        logger,
		loc:        loc,
		channelID:  cfg.ChannelID,
		nowFunc:    time.Now,
		triggers: []*triggerRegistration{
			{kind: dsu.KindMorning, expression: cfg.Schedule.MorningCron},
			{kind: dsu.KindEvening, expression: cfg.Schedule.EveningCron},
		},
	}
}

// Start registers both triggers and starts the cron engine. Calling Start on
// a running scheduler is a no-op. An error is returned only when a trigger
// cannot be registered even with its default expression.
func (s *DSUScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.log.Warn("Scheduler already running; ignoring repeated Start")
		return nil
	}

	for _, trigger := range s.triggers {
		if err := s.register(trigger); err != nil {
			return err
		}
	}

	s.cronEngine.Start()
	s.running = true

	for _, trigger := range s.triggers {
		s.log.WithFields(logrus.Fields{
			"kind":       trigger.kind,
			"expression": trigger.expression,
			"schedule":   schedule.DescribeCron(trigger.expression),
		}).Info("DSU trigger registered")
	}
	s.log.WithField("timezone", s.loc.String()).Info("DSU scheduler started")
	return nil
}

// register adds one trigger to the cron engine, degrading to the default
// expression when the configured one is rejected.
func (s *DSUScheduler) register(trigger *triggerRegistration) error {
	kind := trigger.kind
	trigger.expression = s.resolveCron(kind, trigger.expression)

	entryID, err := s.cronEngine.AddFunc(trigger.expression, func() { s.fire(kind) })
	if err != nil {
		// The expression passed the grammar check but the engine still
		// refused it (the engine is stricter about day-of-week bounds).
		fallback := defaultCron(kind)
		if trigger.expression == fallback {
			return fmt.Errorf("registering %s trigger: %w", kind, err)
		}
		s.log.WithError(err).WithFields(logrus.Fields{
			"kind":       kind,
			"expression": trigger.expression,
			"fallback":   fallback,
		}).Error("Cron engine rejected expression; using default schedule")
		trigger.expression = fallback
		entryID, err = s.cronEngine.AddFunc(fallback, func() { s.fire(kind) })
		if err != nil {
			return fmt.Errorf("registering %s trigger with default schedule: %w", kind, err)
		}
	}
	trigger.entryID = entryID
	return nil
}

// resolveCron validates a configured expression and substitutes the
// documented default when it does not parse.
func (s *DSUScheduler) resolveCron(kind dsu.Kind, expr string) string {
	if schedule.IsValidCron(expr) {
		return expr
	}
	fallback := defaultCron(kind)
	s.log.WithFields(logrus.Fields{
		"kind":       kind,
		"expression": expr,
		"fallback":   fallback,
	}).Warn("Invalid cron expression; using default schedule")
	return fallback
}

func defaultCron(kind dsu.Kind) string {
	if kind == dsu.KindEvening {
		return DefaultEveningCron
	}
	return DefaultMorningCron
}

// fire runs one scheduled trigger. The weekday gate runs here, at fire time,
// so an expression widened to every day still skips Saturday and Sunday.
func (s *DSUScheduler) fire(kind dsu.Kind) {
	now := s.nowFunc().In(s.loc)
	logCtx := s.log.WithFields(logrus.Fields{
		"kind":       kind,
		"local_time": now.Format("2006-01-02 15:04:05 MST"),
	})

	if !schedule.IsWeekday(now, s.loc) {
		metrics.IncSkipped(kind, "weekend")
		logCtx.Info("Skipping DSU trigger on a weekend")
		return
	}

	logCtx.Info("DSU trigger fired")
	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	event := s.dispatcher.Dispatch(ctx, kind, s.channelID)
	app.LogDispatchEvent(s.log, event)
}

// Stop halts the cron engine and waits for an in-flight job to finish. Safe
// to call before Start and safe to call twice.
func (s *DSUScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.log.Info("Stopping DSU scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.running = false
	s.log.Info("DSU scheduler stopped")
}

// TriggerStatus is the externally visible state of one recurring trigger.
type TriggerStatus struct {
	Kind        string `json:"kind"`
	Expression  string `json:"expression"`
	Description string `json:"description"`
	NextRun     string `json:"next_run,omitempty"`
	PrevRun     string `json:"prev_run,omitempty"`
}

// Snapshot is the point-in-time scheduler state served by the health
// endpoint and the status command.
type Snapshot struct {
	Running    bool            `json:"running"`
	Timezone   string          `json:"timezone"`
	LocalTime  string          `json:"local_time"`
	WeekdayNow bool            `json:"weekday_now"`
	Triggers   []TriggerStatus `json:"triggers"`
}

// Status reports the current scheduler state. Next and previous run times
// come from the live cron entries, rendered in the configured timezone.
func (s *DSUScheduler) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc().In(s.loc)
	snapshot := Snapshot{
		Running:    s.running,
		Timezone:   s.loc.String(),
		LocalTime:  now.Format("2006-01-02 15:04:05 MST"),
		WeekdayNow: schedule.IsWeekday(now, s.loc),
		Triggers:   make([]TriggerStatus, 0, len(s.triggers)),
	}
	for _, trigger := range s.triggers {
		status := TriggerStatus{
			Kind:        string(trigger.kind),
			Expression:  trigger.expression,
			Description: schedule.DescribeCron(trigger.expression),
		}
		if trigger.entryID != 0 {
			entry := s.cronEngine.Entry(trigger.entryID)
			if !entry.Next.IsZero() {
				status.NextRun = entry.Next.In(s.loc).Format(time.RFC3339)
			}
			if !entry.Prev.IsZero() {
				status.PrevRun = entry.Prev.In(s.loc).Format(time.RFC3339)
			}
		}
		snapshot.Triggers = append(snapshot.Triggers, status)
	}
	return snapshot
}
