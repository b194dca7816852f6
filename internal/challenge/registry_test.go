package challenge_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/challenge"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/db"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registry over a fresh database", t, func() {
		conn, err := db.Open(filepath.Join(t.TempDir(), "game.db"))
		So(err, ShouldBeNil)
		Reset(func() { conn.Close() })

		Convey("Create returns the generated code and Resolve round-trips it", func() {
			reg := challenge.NewRegistry(conn)
			code, err := reg.Create(ctx, "creator", "maradona")
			So(err, ShouldBeNil)
			So(code, ShouldHaveLength, 6)

			target, err := reg.Resolve(ctx, code)
			So(err, ShouldBeNil)
			So(target, ShouldEqual, "maradona")
		})

		Convey("Resolve normalizes case and whitespace", func() {
			gen := sequenceGenerator("ABC123")
			reg := challenge.NewRegistry(conn, challenge.WithGenerator(gen))
			_, err := reg.Create(ctx, "creator", "pele")
			So(err, ShouldBeNil)

			target, err := reg.Resolve(ctx, "  abc123 ")
			So(err, ShouldBeNil)
			So(target, ShouldEqual, "pele")
		})

		Convey("Resolve rejects unknown codes", func() {
			reg := challenge.NewRegistry(conn)
			_, err := reg.Resolve(ctx, "ZZZZZZ")
			So(err, ShouldEqual, challenge.ErrUnknownCode)
		})

		Convey("A collision retries with a fresh code and fires the hook", func() {
			collisions := 0
			gen := sequenceGenerator("AAAAAA", "AAAAAA", "BBBBBB")
			reg := challenge.NewRegistry(conn,
				challenge.WithGenerator(gen),
				challenge.WithCollisionHook(func() { collisions++ }))

			first, err := reg.Create(ctx, "c1", "t1")
			So(err, ShouldBeNil)
			So(first, ShouldEqual, "AAAAAA")

			second, err := reg.Create(ctx, "c2", "t2")
			So(err, ShouldBeNil)
			So(second, ShouldEqual, "BBBBBB")
			So(collisions, ShouldEqual, 1)

			Convey("And the original mapping is untouched", func() {
				target, err := reg.Resolve(ctx, "AAAAAA")
				So(err, ShouldBeNil)
				So(target, ShouldEqual, "t1")
			})
		})

		Convey("Exhausting the retry budget fails loudly", func() {
			gen := sequenceGenerator("SAME00", "SAME00", "SAME00", "SAME00")
			reg := challenge.NewRegistry(conn,
				challenge.WithGenerator(gen),
				challenge.WithMaxRetries(3))

			_, err := reg.Create(ctx, "c1", "t1")
			So(err, ShouldBeNil)

			_, err = reg.Create(ctx, "c2", "t2")
			So(err, ShouldEqual, challenge.ErrCodeSpaceExhausted)
		})

		Convey("Get returns the full row, nil for absent codes", func() {
			gen := sequenceGenerator("GETME1")
			reg := challenge.NewRegistry(conn, challenge.WithGenerator(gen))
			_, err := reg.Create(ctx, "creator", "zidane")
			So(err, ShouldBeNil)

			c, err := reg.Get(ctx, "getme1")
			So(err, ShouldBeNil)
			So(c, ShouldNotBeNil)
			So(c.Code, ShouldEqual, "GETME1")
			So(c.TargetID, ShouldEqual, "zidane")
			So(c.CreatorID, ShouldEqual, "creator")

			missing, err := reg.Get(ctx, "NOPE00")
			So(err, ShouldBeNil)
			So(missing, ShouldBeNil)
		})

		Convey("WithCodeLength controls generated code length", func() {
			reg := challenge.NewRegistry(conn, challenge.WithCodeLength(8))
			code, err := reg.Create(ctx, "creator", "t")
			So(err, ShouldBeNil)
			So(code, ShouldHaveLength, 8)
		})
	})
}

func TestConcurrentCreation(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	defer conn.Close()

	reg := challenge.NewRegistry(conn)

	const n = 20
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := reg.Create(context.Background(), fmt.Sprintf("c%d", i), "target")
			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			codes <- code
		}(i)
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		if seen[code] {
			t.Fatalf("duplicate code issued: %s", code)
		}
		seen[code] = true
	}
}

// sequenceGenerator replays the given codes in order, repeating the last
// one once the sequence is exhausted.
func sequenceGenerator(codes ...string) challenge.Generator {
	i := 0
	return func(int) (string, error) {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c, nil
	}
}
