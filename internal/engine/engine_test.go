package engine_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/challenge"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/daily"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/db"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/engine"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/feedback"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/metrics"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/session"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/suggest"
)

// engineOverrides swaps injectable engine dependencies in tests.
type engineOverrides struct {
	randomIndex func(n int) (int, error)
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return testEngineWith(t, engineOverrides{})
}

func testEngineWith(t *testing.T, ov engineOverrides) *engine.Engine {
	t.Helper()

	entities := []*catalog.Entity{
		{
			ID: "ronaldinho", DisplayName: "Ronaldinho", Aliases: []string{"dinho"},
			DebutYear: 1998, Club: "Barcelona", Rating: 94, SecondaryMetric: 1,
			Position: catalog.Forward, BirthCountry: "Brazil",
		},
		{
			ID: "ronaldo-r9", DisplayName: "Ronaldo Nazario", Aliases: []string{"r9"},
			DebutYear: 1993, Club: "Real Madrid", Rating: 94, SecondaryMetric: 2,
			Position: catalog.Forward, BirthCountry: "Brazil",
		},
		{
			ID: "cristiano", DisplayName: "Cristiano Ronaldo", Aliases: []string{"cr7"},
			DebutYear: 2002, Club: "Real Madrid", Rating: 93, SecondaryMetric: 5,
			Position: catalog.Forward, BirthCountry: "Portugal",
		},
		{
			ID: "zidane", DisplayName: "Zinedine Zidane", Aliases: []string{"zizou"},
			DebutYear: 1989, Club: "Real Madrid", Rating: 94, SecondaryMetric: 1,
			Position: catalog.Midfielder, BirthCountry: "France",
		},
	}
	cat, err := catalog.New(entities)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	rotation, err := daily.New([]string{"ronaldinho", "zidane"}, cat)
	if err != nil {
		t.Fatalf("rotation: %v", err)
	}
	conn, err := db.Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	m := metrics.New(prometheus.NewRegistry())
	return engine.New(engine.Deps{
		Catalog:       cat,
		Rotation:      rotation,
		Sessions:      session.NewStore(conn, cat, feedback.New(), 10),
		Challenges:    challenge.NewRegistry(conn, challenge.WithGenerator(fixedCode("CHAL01"))),
		Suggestions:   suggest.NewCache(conn),
		Metrics:       m,
		Now:           func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
		NewRoundToken: func() string { return "round-1" },
		RandomIndex:   ov.randomIndex,
	})
}

func fixedCode(code string) challenge.Generator {
	return func(int) (string, error) { return code, nil }
}

func TestEngineFlows(t *testing.T) {
	ctx := context.Background()

	Convey("Given a wired engine", t, func() {
		eng := testEngine(t)

		Convey("StartDaily keys the session to the rotation for the date", func() {
			key, err := eng.StartDaily(ctx, "p1")
			So(err, ShouldBeNil)
			So(key, ShouldEqual, "daily:2024-01-01")

			Convey("An exact alias guess wins immediately", func() {
				// 2024-01-01 is an even ordinal, so the rotation picks
				// the first entry.
				res, err := eng.Guess(ctx, "p1", "dinho")
				So(err, ShouldBeNil)
				So(res.Choices, ShouldBeNil)
				So(res.Outcome.Won, ShouldBeTrue)
				So(res.Outcome.TargetName, ShouldEqual, "Ronaldinho")
			})

			Convey("A wrong guess returns a verdict and stays active", func() {
				res, err := eng.Guess(ctx, "p1", "zizou")
				So(err, ShouldBeNil)
				So(res.Outcome.Won, ShouldBeFalse)
				So(res.Outcome.Verdict, ShouldHaveLength, 6)
				So(res.Outcome.AttemptsLeft, ShouldEqual, 9)
			})

			Convey("Unrecognized text is an error, not an attempt", func() {
				_, err := eng.Guess(ctx, "p1", "xyzzy")
				So(err, ShouldEqual, engine.ErrUnresolvedEntity)

				sess, _, err := eng.Status(ctx, "p1")
				So(err, ShouldBeNil)
				So(sess.Attempts, ShouldEqual, 0)
			})

			Convey("An ambiguous guess parks a choice list", func() {
				res, err := eng.Guess(ctx, "p1", "ronaldo")
				So(err, ShouldBeNil)
				So(res.Outcome, ShouldBeNil)
				So(res.Choices, ShouldNotBeNil)
				So(res.Choices.Names, ShouldResemble, []string{"Ronaldo Nazario", "Cristiano Ronaldo"})

				Convey("And selecting from it scores the chosen player", func() {
					sel, err := eng.Select(ctx, "p1", res.Choices.Token, 2)
					So(err, ShouldBeNil)
					So(sel.Code, ShouldBeEmpty)
					So(sel.Outcome.Ordinal, ShouldEqual, 1)
					So(sel.Outcome.Won, ShouldBeFalse)
				})

				Convey("A replayed token is rejected", func() {
					_, err := eng.Select(ctx, "p1", res.Choices.Token, 1)
					So(err, ShouldBeNil)
					_, err = eng.Select(ctx, "p1", res.Choices.Token, 1)
					So(err, ShouldEqual, suggest.ErrStaleToken)
				})
			})

			Convey("A single substring hit resolves without a choice list", func() {
				res, err := eng.Guess(ctx, "p1", "zidane")
				So(err, ShouldBeNil)
				So(res.Choices, ShouldBeNil)
				So(res.Outcome, ShouldNotBeNil)
			})
		})

		Convey("StartRandom keys the session to the injected round token", func() {
			key, err := eng.StartRandom(ctx, "p1")
			So(err, ShouldBeNil)
			So(key, ShouldEqual, "random:round-1")

			sess, _, err := eng.Status(ctx, "p1")
			So(err, ShouldBeNil)
			So(sess.Key, ShouldEqual, key)
			So(sess.Status, ShouldEqual, session.StatusActive)
		})

		Convey("StartRandom surfaces a failed random draw instead of panicking", func() {
			broken := testEngineWith(t, engineOverrides{
				randomIndex: func(int) (int, error) { return 0, errors.New("entropy unavailable") },
			})
			_, err := broken.StartRandom(ctx, "p1")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "entropy unavailable")

			_, _, err = broken.Status(ctx, "p1")
			So(err, ShouldEqual, session.ErrNoActiveSession)
		})

		Convey("An injected index pins the random target", func() {
			pinned := testEngineWith(t, engineOverrides{
				randomIndex: func(int) (int, error) { return 3, nil }, // zidane
			})
			_, err := pinned.StartRandom(ctx, "p1")
			So(err, ShouldBeNil)

			res, err := pinned.Guess(ctx, "p1", "zizou")
			So(err, ShouldBeNil)
			So(res.Outcome.Won, ShouldBeTrue)
		})

		Convey("Challenge flow", func() {
			Convey("Creating from unambiguous text returns a code", func() {
				res, err := eng.CreateChallenge(ctx, "creator", "cr7")
				So(err, ShouldBeNil)
				So(res.Choices, ShouldBeNil)
				So(res.Code, ShouldEqual, "CHAL01")

				Convey("And another player can join and win on it", func() {
					key, err := eng.StartChallenge(ctx, "joiner", "chal01")
					So(err, ShouldBeNil)
					So(key, ShouldEqual, "challenge:CHAL01")

					g, err := eng.Guess(ctx, "joiner", "cr7")
					So(err, ShouldBeNil)
					So(g.Outcome.Won, ShouldBeTrue)
				})
			})

			Convey("Creating from ambiguous text goes through selection", func() {
				res, err := eng.CreateChallenge(ctx, "creator", "ronaldo")
				So(err, ShouldBeNil)
				So(res.Code, ShouldBeEmpty)
				So(res.Choices, ShouldNotBeNil)

				sel, err := eng.Select(ctx, "creator", res.Choices.Token, 1)
				So(err, ShouldBeNil)
				So(sel.Outcome, ShouldBeNil)
				So(sel.Code, ShouldEqual, "CHAL01")
			})

			Convey("Joining an unknown code fails", func() {
				_, err := eng.StartChallenge(ctx, "joiner", "NOPE00")
				So(err, ShouldEqual, challenge.ErrUnknownCode)
			})
		})

		Convey("Status without any session reports no active session", func() {
			_, _, err := eng.Status(ctx, "p1")
			So(err, ShouldEqual, session.ErrNoActiveSession)
		})
	})
}
