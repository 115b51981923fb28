package review

import (
	"errors"
	"testing"
	"time"

	"github.com/jonathanyeong/inkwell/internal/apperr"
	"github.com/jonathanyeong/inkwell/internal/inbox"
	"github.com/jonathanyeong/inkwell/internal/models"
	"github.com/jonathanyeong/inkwell/internal/sm2"
	"github.com/jonathanyeong/inkwell/internal/storage"
)

func testSession(t *testing.T, titles ...string) (*Session, *inbox.Store) {
	t.Helper()
	root := t.TempDir()
	provider, err := storage.NewFS(root)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	store := inbox.NewStore(provider, 0)

	// Stagger creation so filenames and due ordering are deterministic.
	for i, title := range titles {
		rec, err := store.Create(title + "\nbody " + title)
		if err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
		rec.NextReviewAt = store.Now().Add(time.Duration(i-len(titles)) * time.Hour)
		if err := store.Write(rec, rec.Content); err != nil {
			t.Fatalf("Write %s: %v", title, err)
		}
	}

	return New(store), store
}

func TestStartWithNothingDue(t *testing.T) {
	sess, _ := testSession(t)

	err := sess.Start()
	if !errors.Is(err, apperr.ErrNothingDue) {
		t.Errorf("Start = %v, want ErrNothingDue", err)
	}
	if sess.State() != Idle {
		t.Errorf("State = %v, want Idle", sess.State())
	}
}

func TestCurrentOutsidePresenting(t *testing.T) {
	sess, _ := testSession(t)

	if _, _, err := sess.Current(); !errors.Is(err, apperr.ErrNoActiveEntry) {
		t.Errorf("Current in Idle = %v, want ErrNoActiveEntry", err)
	}
	if err := sess.SubmitRating(sm2.Skip); !errors.Is(err, apperr.ErrNoActiveEntry) {
		t.Errorf("SubmitRating in Idle = %v, want ErrNoActiveEntry", err)
	}
	if err := sess.SubmitArchive(); !errors.Is(err, apperr.ErrNoActiveEntry) {
		t.Errorf("SubmitArchive in Idle = %v, want ErrNoActiveEntry", err)
	}
}

func TestFullRatingPass(t *testing.T) {
	sess, store := testSession(t, "alpha", "beta", "gamma")

	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.State() != Presenting {
		t.Fatalf("State = %v, want Presenting", sess.State())
	}

	seen := map[string]bool{}
	for i := 1; i <= 3; i++ {
		rec, prog, err := sess.Current()
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if prog.Current != i || prog.Total != 3 {
			t.Errorf("Progress = %+v, want %d/3", prog, i)
		}
		seen[rec.Path] = true
		if err := sess.SubmitRating(sm2.Skip); err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
	}

	if sess.State() != Completed {
		t.Errorf("State = %v, want Completed", sess.State())
	}
	if len(seen) != 3 {
		t.Errorf("presented %d distinct entries, want 3", len(seen))
	}

	// Every rated entry has been rescheduled past today.
	due, err := store.ListDue(store.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Errorf("still due after full pass: %d", len(due))
	}
}

func TestSubmitRatingReschedules(t *testing.T) {
	sess, store := testSession(t, "solo")

	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	rec, _, err := sess.Current()
	if err != nil {
		t.Fatal(err)
	}

	if err := sess.SubmitRating(sm2.Unfruitful); err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}

	after, err := store.Read(rec.Path)
	if err != nil {
		t.Fatal(err)
	}
	if after.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", after.Repetitions)
	}
	if after.EaseFactor != 2.6 {
		t.Errorf("EaseFactor = %v, want 2.6", after.EaseFactor)
	}
	wantNext := store.Now().AddDate(0, 0, 1)
	if after.NextReviewAt.Day() != wantNext.Day() {
		t.Errorf("NextReviewAt = %v, want next day", after.NextReviewAt)
	}
}

func TestSubmitRatingWithContent(t *testing.T) {
	sess, store := testSession(t, "draft")

	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	rec, _, _ := sess.Current()

	if err := sess.SubmitRatingWithContent(sm2.Fruitful, "draft\nrewritten during review"); err != nil {
		t.Fatalf("SubmitRatingWithContent: %v", err)
	}

	after, err := store.Read(rec.Path)
	if err != nil {
		t.Fatal(err)
	}
	if after.Content != "draft\nrewritten during review" {
		t.Errorf("Content = %q", after.Content)
	}
	if after.Repetitions != 0 || after.Interval != 1 {
		t.Errorf("fruitful rating: got reps %d interval %d, want reset", after.Repetitions, after.Interval)
	}
}

func TestSubmitRatingInvalid(t *testing.T) {
	sess, _ := testSession(t, "solo")
	if err := sess.Start(); err != nil {
		t.Fatal(err)
	}

	if err := sess.SubmitRating(sm2.Rating(2)); err == nil {
		t.Error("expected error for out-of-set rating")
	}
	// The session stays parked on the same entry.
	if _, prog, err := sess.Current(); err != nil || prog.Current != 1 {
		t.Errorf("Current after bad rating: prog=%+v err=%v", prog, err)
	}
}

func TestSubmitRatingParksOnFailure(t *testing.T) {
	sess, store := testSession(t, "doomed")
	if err := sess.Start(); err != nil {
		t.Fatal(err)
	}
	rec, _, _ := sess.Current()

	// Remove the file behind the session's back so the re-read fails.
	if err := store.Archive(rec.Path); err != nil {
		t.Fatal(err)
	}

	if err := sess.SubmitRating(sm2.Skip); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SubmitRating = %v, want ErrNotFound", err)
	}
	if sess.State() != Presenting {
		t.Errorf("State = %v, want still Presenting", sess.State())
	}
}

func TestSubmitArchiveAdvances(t *testing.T) {
	sess, store := testSession(t, "first", "second")
	if err := sess.Start(); err != nil {
		t.Fatal(err)
	}

	if err := sess.SubmitArchive(); err != nil {
		t.Fatalf("SubmitArchive: %v", err)
	}
	if sess.State() != Presenting {
		t.Fatalf("State = %v, want Presenting", sess.State())
	}

	rec, prog, err := sess.Current()
	if err != nil {
		t.Fatal(err)
	}
	if prog.Total != 1 {
		t.Errorf("Total = %d, want 1 after archive", prog.Total)
	}

	remaining, err := store.Read(rec.Path)
	if err != nil || remaining == nil {
		t.Fatalf("remaining entry unreadable: %v", err)
	}
	if remaining.Status != models.StatusActive {
		t.Errorf("remaining entry status = %q", remaining.Status)
	}
}

func TestSubmitArchiveLastCompletes(t *testing.T) {
	sess, _ := testSession(t, "only")
	if err := sess.Start(); err != nil {
		t.Fatal(err)
	}

	if err := sess.SubmitArchive(); err != nil {
		t.Fatalf("SubmitArchive: %v", err)
	}
	if sess.State() != Completed {
		t.Errorf("State = %v, want Completed", sess.State())
	}
}

func TestStopDiscardsProgress(t *testing.T) {
	sess, store := testSession(t, "one", "two")
	if err := sess.Start(); err != nil {
		t.Fatal(err)
	}
	if err := sess.SubmitRating(sm2.Skip); err != nil {
		t.Fatal(err)
	}

	sess.Stop()
	if sess.State() != Idle {
		t.Errorf("State = %v, want Idle", sess.State())
	}

	// The unrated entry is still due; the rated one is not.
	due, err := store.ListDue(store.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 {
		t.Errorf("due after stop = %d, want 1", len(due))
	}
}

func TestRestartReloadsDueSet(t *testing.T) {
	sess, _ := testSession(t, "one", "two")
	if err := sess.Start(); err != nil {
		t.Fatal(err)
	}
	if err := sess.SubmitRating(sm2.Skip); err != nil {
		t.Fatal(err)
	}
	sess.Stop()

	if err := sess.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	_, prog, err := sess.Current()
	if err != nil {
		t.Fatal(err)
	}
	if prog.Total != 1 {
		t.Errorf("Total after restart = %d, want 1", prog.Total)
	}
}
