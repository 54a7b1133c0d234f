package lotw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testReport = "ARRL Logbook of the World Status Report\n" +
	"<eoh>\n" +
	"<CALL:4>W1AW<BAND:3>20M<MODE:3>SSB<QSO_DATE:8>20220101<TIME_ON:4>0000<QSL_RCVD:1>Y<eor>\n"

func testClient(server *httptest.Server) *Client {
	client := NewClient("TE5T", "hunter2")
	client.BaseURL = server.URL + "/"

	return client
}

func TestFetchLogbook(t *testing.T) {
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()

		if _, err := w.Write([]byte(testReport)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	book, err := testClient(server).FetchLogbook(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("FetchLogbook failed: %v", err)
	}

	if book.Callsign != "TE5T" {
		t.Fatalf("expected logbook owned by the account callsign, got %q", book.Callsign)
	}

	if book.Count() != 1 {
		t.Fatalf("expected 1 QSO, got %d", book.Count())
	}

	if got := gotQuery["qso_query"]; len(got) != 1 || got[0] != "1" {
		t.Fatalf("expected default qso_query=1, got %v", got)
	}

	if got := gotQuery["qso_qsl"]; len(got) != 1 || got[0] != "yes" {
		t.Fatalf("expected default qso_qsl=yes, got %v", got)
	}

	if got := gotQuery["login"]; len(got) != 1 || got[0] != "TE5T" {
		t.Fatalf("expected login param, got %v", got)
	}

	if _, present := gotQuery["qso_band"]; present {
		t.Fatal("expected unset filters to be omitted")
	}
}

func TestFetchLogbookPassesFilters(t *testing.T) {
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()

		if _, err := w.Write([]byte(testReport)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	opts := FetchOptions{QSLOnly: "no", Band: "20M", QSORxSince: "2024-01-01"}

	if _, err := testClient(server).FetchLogbook(context.Background(), opts); err != nil {
		t.Fatalf("FetchLogbook failed: %v", err)
	}

	if got := gotQuery["qso_qsl"]; len(got) != 1 || got[0] != "no" {
		t.Fatalf("expected qso_qsl=no, got %v", got)
	}

	if got := gotQuery["qso_band"]; len(got) != 1 || got[0] != "20M" {
		t.Fatalf("expected qso_band=20M, got %v", got)
	}

	if got := gotQuery["qso_qsorxsince"]; len(got) != 1 || got[0] != "2024-01-01" {
		t.Fatalf("expected qso_qsorxsince passed through, got %v", got)
	}
}

func TestFetchLogbookRejectedQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("<HTML>Username/password incorrect</HTML>")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	_, err := testClient(server).FetchLogbook(context.Background(), FetchOptions{})
	if !errors.Is(err, ErrRetrievalFailed) {
		t.Fatalf("expected ErrRetrievalFailed, got %v", err)
	}
}

func TestFetchLogbookUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server).FetchLogbook(context.Background(), FetchOptions{})
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestDXCCCredit(t *testing.T) {
	report := dxccReportBanner + "\n<eoh>\n" +
		"<CALL:4>W1AW<BAND:3>20M<MODE:3>SSB<QSO_DATE:8>20220101<TIME_ON:4>0000<eor>\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("entity"); got != "291" {
			t.Errorf("expected entity=291, got %q", got)
		}

		if _, err := w.Write([]byte(report)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	book, err := testClient(server).DXCCCredit(context.Background(), "291", "")
	if err != nil {
		t.Fatalf("DXCCCredit failed: %v", err)
	}

	if book.Count() != 1 {
		t.Fatalf("expected 1 credited QSO, got %d", book.Count())
	}
}

func TestDXCCCreditMissingBanner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// eQSL-style failure page still carrying an end-of-header tag.
		if _, err := w.Write([]byte("something went wrong\n<eoh>\n")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	_, err := testClient(server).DXCCCredit(context.Background(), "", "")
	if !errors.Is(err, ErrRetrievalFailed) {
		t.Fatalf("expected ErrRetrievalFailed, got %v", err)
	}
}

func TestLastUploads(t *testing.T) {
	feed := "W1AW,2024-01-02,03:04:05\r\nCA7LLX,2023-12-31,23:59:59\r\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(feed)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	restore := activityFeedURL
	activityFeedURL = server.URL

	defer func() { activityFeedURL = restore }()

	activity, err := LastUploads(context.Background())
	if err != nil {
		t.Fatalf("LastUploads failed: %v", err)
	}

	if len(activity) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(activity))
	}

	first := UserActivity{Callsign: "W1AW", Date: "2024-01-02", Time: "03:04:05"}
	if activity[0] != first {
		t.Fatalf("unexpected first row %+v", activity[0])
	}
}

func TestUploadLogbookAccepted(t *testing.T) {
	page := "<!-- .UPL. accepted -->\n<!-- .UPLMESSAGE. File queued for processing -->\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart upload: %v", err)
		}

		file, header, err := r.FormFile("upfile")
		if err != nil {
			t.Errorf("expected upfile part: %v", err)
		} else {
			defer file.Close()

			if header.Filename != "log.tq8" {
				t.Errorf("expected filename log.tq8, got %q", header.Filename)
			}
		}

		if _, err := w.Write([]byte(page)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	restore := uploadURL
	uploadURL = server.URL

	defer func() { uploadURL = restore }()

	message, err := UploadLogbook(context.Background(), "log.tq8", []byte("signed log bytes"))
	if err != nil {
		t.Fatalf("UploadLogbook failed: %v", err)
	}

	if message != "File queued for processing" {
		t.Fatalf("unexpected result message %q", message)
	}
}

func TestUploadLogbookRejected(t *testing.T) {
	page := "<!-- .UPL. rejected -->\n<!-- .UPLMESSAGE. Not a valid signed file -->\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(page)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	restore := uploadURL
	uploadURL = server.URL

	defer func() { uploadURL = restore }()

	_, err := UploadLogbook(context.Background(), "log.tq8", []byte("bogus"))
	if !errors.Is(err, ErrUploadRejected) {
		t.Fatalf("expected ErrUploadRejected, got %v", err)
	}
}

func TestUploadLogbookMalformedPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("<HTML>maintenance</HTML>")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	restore := uploadURL
	uploadURL = server.URL

	defer func() { uploadURL = restore }()

	_, err := UploadLogbook(context.Background(), "log.tq8", []byte("bytes"))
	if !errors.Is(err, ErrUploadMalformed) {
		t.Fatalf("expected ErrUploadMalformed, got %v", err)
	}
}
