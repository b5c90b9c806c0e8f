// Command verify posts a sample image to a running Plant Doctor server and
// reports whether a diagnosis came back.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plantdoctor/entities"
)

const (
	green = "\033[92m"
	red   = "\033[91m"
	reset = "\033[0m"
	bold  = "\033[1m"
)

func main() {
	var baseURL, image, mimeType string
	var timeout time.Duration
	flag.StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	flag.StringVar(&image, "image", "image.webp", "image file to upload")
	flag.StringVar(&mimeType, "mime", "", "declared content type (default: guessed from extension)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")
	flag.Parse()

	if mimeType == "" {
		mimeType = guessMIME(image)
	}
	fmt.Printf("%sTesting Plant Doctor API with %s...%s\n", bold, image, reset)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := run(ctx, os.Stdout, baseURL, image, mimeType); err != nil {
		fmt.Printf("%s❌ %v%s\n", red, err, reset)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, baseURL, image, mimeType string) error {
	data, err := os.ReadFile(image)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s not found in current directory", image)
		}
		return err
	}

	body, contentType, err := multipartBody(filepath.Base(image), mimeType, data)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/analyze-plant", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not connect to backend, is the server running? (%w)", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed: status code %d\nerror: %s", resp.StatusCode, raw)
	}
	fmt.Fprintf(out, "%s✅ Success! API returned 200 OK%s\n", green, reset)

	var r entities.DiagnosisReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("response is not a diagnosis report: %w", err)
	}
	report(out, &r)
	return nil
}

func report(out io.Writer, r *entities.DiagnosisReport) {
	problem := ""
	if r.DetectedProblem != nil {
		problem = str(r.DetectedProblem.Name)
	}
	fmt.Fprintf(out, "\n%sResponse Data:%s\n", bold, reset)
	fmt.Fprintf(out, "Plant: %s\n", str(r.PlantName))
	fmt.Fprintf(out, "Diagnosis: %s\n", r.DiagnosisStatus)
	fmt.Fprintf(out, "Problem: %s\n", problem)
	if r.DiagnosisStatus == entities.StatusConfirmed {
		fmt.Fprintf(out, "%s✅ Diagnosis Confirmed%s\n", green, reset)
	} else {
		fmt.Fprintf(out, "%s⚠️  Diagnosis Uncertain (Expected for some images)%s\n", green, reset)
	}
}

func multipartBody(filename, mimeType string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func guessMIME(path string) string {
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		return "application/octet-stream"
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

func str(p *string) string {
	if p == nil {
		return "<none>"
	}
	return *p
}
