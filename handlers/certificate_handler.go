package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/iproutreach/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
)

type CertificateRequest struct {
	StudentName string `json:"studentName" validate:"required"`
	QuizName    string `json:"quizName" validate:"required"`
	Percentage  int    `json:"percentage" validate:"min=0,max=100"`
	Email       string `json:"email"`
}

// GenerateAndEmailCertificate renders the certificate and emails it as an
// attachment. A failed send is not a failed request: the PDF is kept on
// disk and its path reported back.
func GenerateAndEmailCertificate(c *fiber.Ctx) error {
	var req CertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if strings.TrimSpace(req.StudentName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid student name"})
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid email format"})
	}

	studentName := strings.TrimSpace(req.StudentName)
	pdfBytes, err := services.GenerateCertificatePDF(studentName, req.QuizName, req.Percentage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate certificate"})
	}

	localPath, err := services.EmailCertificate(studentName, req.QuizName, req.Email, pdfBytes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate or send certificate"})
	}

	if localPath != "" {
		return c.JSON(fiber.Map{
			"success":         true,
			"message":         "Certificate generated but email sending failed. Certificate saved locally.",
			"certificatePath": localPath,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Certificate generated and sent successfully",
	})
}

func GenerateAndDownloadCertificate(c *fiber.Ctx) error {
	var req CertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if strings.TrimSpace(req.StudentName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid student name"})
	}

	studentName := strings.TrimSpace(req.StudentName)
	pdfBytes, err := services.GenerateCertificatePDF(studentName, req.QuizName, req.Percentage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate certificate for download"})
	}

	fileName := fmt.Sprintf("%s_%s_%d.pdf", req.QuizName, strings.ReplaceAll(studentName, " ", "_"), time.Now().UnixMilli())
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(pdfBytes)
}
