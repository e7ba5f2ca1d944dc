package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"matchlog/internal/core/classify"
	"matchlog/internal/core/likecontent"
	perr "matchlog/internal/platform/errors"
	facts "matchlog/internal/services/facts/domain"
	"matchlog/internal/services/facts/repo"
	dom "matchlog/internal/services/people/domain"
)

func seed(t *testing.T, n int) *repo.Memory {
	t.Helper()
	mem := repo.NewMemory()
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	err := mem.Tx(context.Background(), func(w facts.Writer) error {
		for i := range n {
			at := base.Add(time.Duration(i) * 24 * time.Hour)
			url := fmt.Sprintf("http://x/%d.jpg", i)
			if err := w.InsertLike(context.Background(), classify.LikeFact{UserID: "u1", Type: likecontent.Photo, Timestamp: &at}); err != nil {
				return err
			}
			p := classify.PersonRecord{UserID: "u1", WhoLiked: classify.You, LikeTimestamp: &at, LikedPhoto: &url, HasMedia: true}
			if err := w.InsertPerson(context.Background(), p); err != nil {
				return err
			}
			if i%2 == 0 {
				if err := w.InsertMatch(context.Background(), classify.MatchFact{UserID: "u1", Type: classify.YouLiked, Timestamp: &at}); err != nil {
					return err
				}
			}
		}
		return w.PutUpload(context.Background(), facts.Upload{UserID: "u1", Events: n, Conversations: 3, UploadedAt: base})
	})
	if err != nil {
		t.Fatal(err)
	}
	return mem
}

func TestListPersonsPaging(t *testing.T) {
	s := New(seed(t, 23))
	cases := []struct {
		page, want, size int
	}{
		{1, 1, 10},
		{2, 2, 10},
		{3, 3, 3},
		{9, 3, 3},
	}
	for _, c := range cases {
		t.Run(fmt.Sprint(c.page), func(t *testing.T) {
			got, err := s.ListPersons(context.Background(), "u1", c.page)
			if err != nil {
				t.Fatal(err)
			}
			if got.CurrentPage != c.want || got.PageCount != 3 || len(got.Persons) != c.size {
				t.Fatalf("page = %d/%d with %d persons", got.CurrentPage, got.PageCount, len(got.Persons))
			}
		})
	}

	first, _ := s.ListPersons(context.Background(), "u1", 1)
	if !first.Persons[0].LikeTimestamp.After(*first.Persons[1].LikeTimestamp) {
		t.Fatal("persons should be newest like first")
	}
}

func TestListPersonsErrors(t *testing.T) {
	s := New(repo.NewMemory())
	if _, err := s.ListPersons(context.Background(), "nobody", 1); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.ListPersons(context.Background(), "u1", 0); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestSummary(t *testing.T) {
	s := New(seed(t, 4))
	rep, err := s.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	// 2 matches over 4 likes across 3 days
	if rep.Matches != 2 || rep.Likes != 4 || rep.ConversionPercent != 50 || rep.Conversations != 3 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.LikesPerDay != 1.33 || rep.LikeKinds["photo"] != 4 || rep.Upload.Events != 4 {
		t.Fatalf("report = %+v", rep)
	}

	if _, err := New(repo.NewMemory()).Summary(context.Background(), "u1"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

var _ dom.Reader = (*Svc)(nil)
