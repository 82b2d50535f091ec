package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/talent-matcher/internal/repositories"
	"hireflow/talent-matcher/internal/services"
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	storage       services.ResumeStorage
	resumeParser  services.ResumeParser
	worker        services.EmbeddingWorker
	maxFileSize   int64
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	storage services.ResumeStorage,
	resumeParser services.ResumeParser,
	worker services.EmbeddingWorker,
	maxFileSize int64,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		storage:       storage,
		resumeParser:  resumeParser,
		worker:        worker,
		maxFileSize:   maxFileSize,
	}
}

// HandleRefreshEmbedding handles POST /candidates/:id/embedding. The refresh
// itself runs in the background; the CRUD flow that triggered it is never
// blocked or failed by it.
func (h *CandidateHandler) HandleRefreshEmbedding(c *fiber.Ctx) error {
	tenantID, err := tenantFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	if _, err := h.candidateRepo.FindByID(candidateID, tenantID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	h.worker.EnqueueRefresh(candidateID, tenantID)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
	})
}

// HandleResumeUpload handles POST /candidates/:id/resume. The extracted text
// becomes part of the candidate's searchable profile and queues an embedding
// refresh.
func (h *CandidateHandler) HandleResumeUpload(c *fiber.Ctx) error {
	tenantID, err := tenantFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	if _, err := h.candidateRepo.FindByID(candidateID, tenantID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storage.SaveResume(file, candidateID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume: %v", err),
		})
	}

	text, err := h.resumeParser.ExtractText(filePath)
	if err != nil {
		h.storage.DeleteFile(filename)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to parse resume: %v", err),
		})
	}

	if err := h.candidateRepo.UpdateResumeText(candidateID, tenantID, text); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to store resume text",
		})
	}

	h.worker.EnqueueRefresh(candidateID, tenantID)

	return c.JSON(fiber.Map{
		"candidate_id": candidateID.String(),
		"filename":     filename,
		"status":       "resume stored, embedding refresh queued",
	})
}
