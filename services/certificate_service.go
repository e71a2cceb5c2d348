package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iproutreach/quiz_platform/notifications"
	"github.com/iproutreach/quiz_platform/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const certificateDir = "uploads/certificates"

// GenerateCertificatePDF renders the certificate HTML template and prints
// it to PDF through headless Chrome.
func GenerateCertificatePDF(studentName, quizName string, percentage int) ([]byte, error) {
	htmlData, err := renderCertificateHTML(studentName, quizName, percentage)
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate HTML: %w", err)
	}
	return printToPDF(htmlData)
}

// EmailCertificate sends the certificate as an email attachment. When the
// send fails the PDF is written under uploads/certificates instead, so the
// artifact is never lost; the local path is returned in that case.
func EmailCertificate(studentName, quizName, email string, pdfBytes []byte) (string, error) {
	subject := fmt.Sprintf("Your Certificate for %s", quizName)
	body := fmt.Sprintf(
		"<h2>Congratulations, %s!</h2><p>You have successfully completed the %s and earned your certificate. Please find it attached.</p><p>Best regards,<br>Outreach Team</p>",
		studentName, quizName,
	)
	fileName := fmt.Sprintf("%s_%s.pdf", quizName, strings.ReplaceAll(studentName, " ", "_"))

	err := notifications.SendEmailWithAttachment(studentName, email, subject, body, fileName, pdfBytes)
	if err == nil {
		return "", nil
	}

	log.Printf("🔥 Certificate email to %s failed, saving locally: %v", email, err)
	localPath, saveErr := SaveCertificateLocally(studentName, quizName, pdfBytes)
	if saveErr != nil {
		return "", fmt.Errorf("email failed (%v) and local save failed: %w", err, saveErr)
	}
	return localPath, nil
}

func SaveCertificateLocally(studentName, quizName string, pdfBytes []byte) (string, error) {
	if err := os.MkdirAll(certificateDir, 0o755); err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("%s_%s_%d.pdf", quizName, strings.ReplaceAll(studentName, " ", "_"), time.Now().UnixMilli())
	path := filepath.Join(certificateDir, fileName)
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func renderCertificateHTML(studentName, quizName string, percentage int) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		QuizName       string
		Percentage     int
		CompletionDate string
		CertificateID  string
	}{
		StudentName:    studentName,
		QuizName:       quizName,
		Percentage:     percentage,
		CompletionDate: time.Now().Format("January 2, 2006"),
		CertificateID:  utils.GenerateCertificateID(),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func printToPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
