package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/talent-matcher/internal/models"
	"hireflow/talent-matcher/internal/services"
)

type SearchHandler struct {
	matcher services.MatcherService
}

func NewSearchHandler(matcher services.MatcherService) *SearchHandler {
	return &SearchHandler{
		matcher: matcher,
	}
}

// HandleSearch handles POST /search
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	tenantID, err := tenantFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req models.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}

	results, err := h.matcher.SemanticSearch(c.UserContext(), req.Query, tenantID, services.SearchOptions{
		Limit:    req.Limit,
		MinScore: req.MinScore,
		Filters:  req.Filters,
	})
	if err != nil {
		return searchError(c, err)
	}

	return c.JSON(models.SearchResponse{Results: results, Total: len(results)})
}

// HandleJobMatches handles GET /jobs/:id/matches
func (h *SearchHandler) HandleJobMatches(c *fiber.Ctx) error {
	tenantID, err := tenantFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	results, err := h.matcher.MatchCandidatesToJob(c.UserContext(), jobID, tenantID, c.QueryInt("limit"))
	if err != nil {
		return searchError(c, err)
	}

	return c.JSON(models.SearchResponse{Results: results, Total: len(results)})
}

// HandleSimilarCandidates handles GET /candidates/:id/similar
func (h *SearchHandler) HandleSimilarCandidates(c *fiber.Ctx) error {
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

	results, err := h.matcher.FindSimilarCandidates(c.UserContext(), candidateID, tenantID, c.QueryInt("limit"))
	if err != nil {
		return searchError(c, err)
	}

	return c.JSON(models.SearchResponse{Results: results, Total: len(results)})
}

// HandleRecommendations handles POST /recommendations
func (h *SearchHandler) HandleRecommendations(c *fiber.Ctx) error {
	tenantID, err := tenantFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var criteria models.RecommendationCriteria
	if err := c.BodyParser(&criteria); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	results, err := h.matcher.GetRecommendations(c.UserContext(), tenantID, criteria)
	if err != nil {
		return searchError(c, err)
	}

	return c.JSON(models.SearchResponse{Results: results, Total: len(results)})
}

// tenantFromHeader reads the tenant scope resolved by the auth layer in
// front of this service.
func tenantFromHeader(c *fiber.Ctx) (uuid.UUID, error) {
	tenantID, err := uuid.Parse(c.Get("X-Tenant-ID"))
	if err != nil {
		return uuid.Nil, errors.New("missing or invalid X-Tenant-ID header")
	}
	return tenantID, nil
}

func searchError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Search failed",
	})
}
