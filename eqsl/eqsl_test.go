package eqsl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(server *httptest.Server) *Client {
	client := NewClient("TE5T", "hunter2", "home")
	client.BaseURL = server.URL + "/"

	return client
}

func TestVerifyQSOOnFile(t *testing.T) {
	page := "Result - QSO on file (Authenticity Guaranteed)"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if got := query.Get("CallsignFrom"); got != "W1AW" {
			t.Errorf("expected CallsignFrom=W1AW, got %q", got)
		}

		if got := query.Get("QSOBand"); got != "20M" {
			t.Errorf("expected QSOBand=20M, got %q", got)
		}

		if _, present := query["QSOMode"]; present {
			t.Error("expected unset mode to be omitted")
		}

		if _, err := w.Write([]byte(page)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	restore := verifyURL
	verifyURL = server.URL

	defer func() { verifyURL = restore }()

	opts := VerifyOptions{CallsignFrom: "W1AW", CallsignTo: "TE5T", Band: "20M"}

	verified, body, err := VerifyQSO(context.Background(), opts)
	if err != nil {
		t.Fatalf("VerifyQSO failed: %v", err)
	}

	if !verified {
		t.Fatal("expected QSO to verify")
	}

	if !strings.Contains(body, "Authenticity Guaranteed") {
		t.Fatalf("expected raw body returned, got %q", body)
	}
}

func TestVerifyQSONotOnFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("Error - No match found")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	restore := verifyURL
	verifyURL = server.URL

	defer func() { verifyURL = restore }()

	verified, _, err := VerifyQSO(context.Background(), VerifyOptions{CallsignFrom: "W1AW", CallsignTo: "TE5T", Band: "20M"})
	if err != nil {
		t.Fatalf("VerifyQSO failed: %v", err)
	}

	if verified {
		t.Fatal("expected QSO not to verify")
	}
}

func TestVerifyQSOParameterMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("Error - Parameter missing: QSOBand")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	restore := verifyURL
	verifyURL = server.URL

	defer func() { verifyURL = restore }()

	_, _, err := VerifyQSO(context.Background(), VerifyOptions{CallsignFrom: "W1AW", CallsignTo: "TE5T"})
	if !errors.Is(err, ErrParameterMissing) {
		t.Fatalf("expected ErrParameterMissing, got %v", err)
	}
}

func TestFetchInbox(t *testing.T) {
	adif := "eQSL download\n<eoh>\n" +
		"<CALL:4>W1AW<BAND:3>20M<MODE:3>SSB<QSO_DATE:8>20220101<TIME_ON:4>0000<EQSL_QSL_RCVD:1>Y<eor>\n"

	var triggerQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "downloadedfiles") {
			if _, err := w.Write([]byte(adif)); err != nil {
				t.Errorf("failed to write adif: %v", err)
			}

			return
		}

		triggerQuery = r.URL.Query()

		page := "<HTML>Your ADIF log file has been built\n" +
			`<LI><A HREF="../downloadedfiles/inbox.adi">.ADI file</A></HTML>`
		if _, err := w.Write([]byte(page)); err != nil {
			t.Errorf("failed to write trigger page: %v", err)
		}
	}))
	defer server.Close()

	book, err := testClient(server).FetchInbox(context.Background(), InboxOptions{RcvdSince: "202401010000"})
	if err != nil {
		t.Fatalf("FetchInbox failed: %v", err)
	}

	if book.Count() != 1 {
		t.Fatalf("expected 1 QSO, got %d", book.Count())
	}

	if got := book.QSOs()[0].QSLRcvd; got != "Y" {
		t.Fatalf("expected eQSL receipt to confirm the QSO, got %q", got)
	}

	if got := triggerQuery["RcvdSince"]; len(got) != 1 || got[0] != "202401010000" {
		t.Fatalf("expected RcvdSince passed through, got %v", got)
	}

	if got := triggerQuery["QTHNickname"]; len(got) != 1 || got[0] != "home" {
		t.Fatalf("expected QTHNickname param, got %v", got)
	}
}

func TestFetchOutboxADIFNotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("No such Username/Password found\ntry again")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	_, err := testClient(server).FetchOutbox(context.Background())
	if !errors.Is(err, ErrADIFNotReady) {
		t.Fatalf("expected ErrADIFNotReady, got %v", err)
	}

	if !strings.Contains(err.Error(), "No such Username/Password found") {
		t.Fatalf("expected error to carry the first response line, got %v", err)
	}
}

func TestFetchInboxLinkMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("Your ADIF log file has been built, but no link here")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	_, err := testClient(server).FetchInbox(context.Background(), InboxOptions{})
	if !errors.Is(err, ErrADIFLinkMissing) {
		t.Fatalf("expected ErrADIFLinkMissing, got %v", err)
	}
}

func TestLastUploadDate(t *testing.T) {
	page := "<HTML>Your last ADIF upload was (01-Jan-2024 at 10:45 UTC)</HTML>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(page)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	date, err := testClient(server).LastUploadDate(context.Background())
	if err != nil {
		t.Fatalf("LastUploadDate failed: %v", err)
	}

	if date != "01-Jan-2024 at 10:45 UTC" {
		t.Fatalf("unexpected date %q", date)
	}
}

func TestLastUploadDateUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("You cannot view this page")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	_, err := testClient(server).LastUploadDate(context.Background())
	if !errors.Is(err, ErrLastUploadUnavailable) {
		t.Fatalf("expected ErrLastUploadUnavailable, got %v", err)
	}
}

func TestRetrieveGraphicNotImplemented(t *testing.T) {
	t.Parallel()

	client := NewClient("TE5T", "hunter2", "")

	_, err := client.RetrieveGraphic(context.Background(), GraphicOptions{})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}
