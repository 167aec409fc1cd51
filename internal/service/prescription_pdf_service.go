package service

import (
	"bytes"
	"fmt"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
)

// PrescriptionPDFService renders a printable prescription.
type PrescriptionPDFService interface {
	Render(p *entity.Prescription, loc *time.Location) (*bytes.Buffer, error)
}

type prescriptionPDFService struct {
	clinicName string
	log        *logrus.Logger
}

func NewPrescriptionPDFService(clinicName string, log *logrus.Logger) PrescriptionPDFService {
	return &prescriptionPDFService{clinicName: clinicName, log: log}
}

func (s *prescriptionPDFService) Render(p *entity.Prescription, loc *time.Location) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; names carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(s.clinicName), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Medical Prescription", "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	addPrescriptionRow(pdf, "Doctor", tr(p.Doctor.User.FullName))
	addPrescriptionRow(pdf, "License", tr(p.Doctor.LicenseNumber))
	addPrescriptionRow(pdf, "Specialty", tr(p.Doctor.Specialty))
	addPrescriptionRow(pdf, "Patient", tr(p.Patient.User.FullName))
	addPrescriptionRow(pdf, "Date", p.CreatedAt.In(loc).Format("2006-01-02"))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, tr(p.Medication), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr("Dosage: "+p.Dosage), "", "L", false)
	if p.Instructions != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, tr(p.Instructions), "", "L", false)
	}

	pdf.Ln(20)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, fmt.Sprintf("Prescription %s", p.ID), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.log.Errorf("Failed to render prescription %s: %+v", p.ID, err)
		return nil, fmt.Errorf("render prescription pdf: %w", err)
	}
	return &buf, nil
}

func addPrescriptionRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(35, 8, label, "1", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, value, "1", 1, "", false, 0, "")
}
