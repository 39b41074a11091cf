package brand

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/solstice-fi/lorebase/notion"
)

func brandUpstream(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := notion.New(notion.Config{
		BaseURL:    srv.URL,
		Token:      "t",
		MaxRetries: 1,
		Backoff:    time.Millisecond,
	})
	return New(client, Config{PageID: "brand-page"}), srv
}

func blocksResponse(blocks ...string) string {
	return fmt.Sprintf(`{"results":[%s],"has_more":false}`, strings.Join(blocks, ","))
}

func rich(typ, text string) string {
	return fmt.Sprintf(`{"type":%q,%q:{"rich_text":[{"plain_text":%q}]}}`, typ, typ, text)
}

func TestService_LookupEndToEnd(t *testing.T) {
	// WHAT: A live document round-trips through fetch, normalize, cache,
	// and id lookup.
	// WHY: The full read path is the product.
	svc, _ := brandUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, blocksResponse(
			rich("heading_1", "Intro"),
			rich("heading_2", "Colors"),
			rich("paragraph", "Use red."),
		))
	})

	sec, sub := svc.Lookup(context.Background(), "1")
	if sec == nil || sub != nil {
		t.Fatalf("lookup 1: got %v/%v", sec, sub)
	}
	if sec.Title != "Intro" {
		t.Errorf("title: got %q", sec.Title)
	}

	sec, sub = svc.Lookup(context.Background(), "1.1")
	if sec != nil || sub == nil {
		t.Fatalf("lookup 1.1: got %v/%v", sec, sub)
	}
	if sub.Body != "Use red." {
		t.Errorf("body: got %q", sub.Body)
	}

	if s, ss := svc.Lookup(context.Background(), "9.9"); s != nil || ss != nil {
		t.Error("missing id should return nil, nil")
	}
}

func TestService_FallbackOnDeadUpstream(t *testing.T) {
	// WHAT: A dead upstream on first fetch serves the static default guide.
	// WHY: Tools must answer even when the content source is down.
	svc, _ := brandUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	over := svc.Overview(context.Background())
	if !over.Fallback {
		t.Error("overview should be flagged as fallback")
	}
	if len(over.Sections) == 0 {
		t.Fatal("fallback must still carry sections")
	}
}

func TestService_RefreshReportsFailure(t *testing.T) {
	// WHAT: Refresh returns a structured failure while queries keep serving
	// the cached snapshot.
	// WHY: Spec'd contract of the explicit refresh operation.
	healthy := true
	svc, _ := brandUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, blocksResponse(rich("heading_1", "Intro"), rich("paragraph", "Hello.")))
	})

	if res := svc.Refresh(context.Background()); !res.OK || res.Sections != 1 {
		t.Fatalf("first refresh: got %+v", res)
	}

	healthy = false
	res := svc.Refresh(context.Background())
	if res.OK {
		t.Fatal("refresh against a dead upstream should fail")
	}
	if res.Message == "" {
		t.Error("failure must carry a message")
	}

	// Ordinary queries still work off the cached snapshot.
	if sec, _ := svc.Lookup(context.Background(), "1"); sec == nil {
		t.Error("cached content should survive a failed refresh")
	}
}

func TestService_EmptyDocumentIsAFetchFailure(t *testing.T) {
	// WHAT: A page that normalizes to zero sections triggers the fallback.
	// WHY: A misconfigured page id must not replace the guide with nothing.
	svc, _ := brandUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, blocksResponse(rich("paragraph", "no headings here")))
	})

	over := svc.Overview(context.Background())
	if !over.Fallback {
		t.Error("empty document should fall back to defaults")
	}
}
