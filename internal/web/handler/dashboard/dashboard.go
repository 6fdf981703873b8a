// Package dashboard provides the souls overview page.
package dashboard

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/auth"
	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
	"github.com/souls-console/souls-console/internal/web/handler"
	"github.com/souls-console/souls-console/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 25

	// TabActive represents the active souls tab.
	TabActive = "active"

	// TabTraining represents the in-training souls tab.
	TabTraining = "training"

	// TabRetired represents the retired souls tab.
	TabRetired = "retired"

	desc = "desc"
)

// Soul represents a soul row for template rendering.
type Soul struct {
	ID           uint64
	Name         string
	Archetype    string
	Temperament  string
	SessionCount int
}

// QueryParams holds the query and pagination parameters.
type QueryParams struct {
	Page            int
	PageSize        int
	SearchQuery     string
	FilterArchetype string
	SortField       string
	SortOrder       string
}

// TabData represents pagination data for a single tab.
type TabData struct {
	Souls           []Soul
	CurrentPage     int
	PageSize        int
	TotalItems      int
	TotalPages      int
	HasPrevPage     bool
	HasNextPage     bool
	PrevPage        int
	NextPage        int
	SearchQuery     string
	FilterArchetype string
	SortField       string
	SortOrder       string
}

// Data represents the complete dashboard data.
type Data struct {
	ActiveTab   string
	ActiveSouls TabData
	TrainingTab TabData
	RetiredTab  TabData
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, table *rbac.Table) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(table, rbac.PermViewDashboard),
		s.Get,
	)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	// Create navigation context
	nav := navigation.NewContext("Dashboard", "dashboard", "overview").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	// Get active tab (default: active souls)
	activeTab := c.Query("tab", TabActive)
	if activeTab != TabActive && activeTab != TabTraining && activeTab != TabRetired {
		activeTab = TabActive
	}

	// Parse query parameters
	params := QueryParams{
		Page:            c.QueryInt("page", 1),
		PageSize:        c.QueryInt("pageSize", DefaultPageSize),
		SearchQuery:     c.Query("search", ""),
		FilterArchetype: c.Query("archetype", ""),
		SortField:       c.Query("sort", "name"),
		SortOrder:       c.Query("order", "asc"),
	}

	// Validate pagination parameters
	if params.Page < 1 {
		params.Page = 1
	}

	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = DefaultPageSize
	}

	var dbSouls []models.Soul
	if err := s.db.Find(&dbSouls).Error; err != nil {
		log.Error().Err(err).Msg("failed to load souls")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load souls: " + err.Error())
	}

	// Categorize souls by lifecycle state
	activeSouls, trainingSouls, retiredSouls := categorizeSouls(dbSouls)

	// Select souls for active tab
	var souls []Soul

	switch activeTab {
	case TabTraining:
		souls = trainingSouls
	case TabRetired:
		souls = retiredSouls
	default:
		souls = activeSouls
	}

	// Apply filters and sorting
	souls = filterSouls(souls, params.SearchQuery, params.FilterArchetype)
	sortSouls(souls, params.SortField, params.SortOrder)

	// Paginate results
	paginatedSouls, totalPages, actualPage := paginateSouls(souls, params.Page, params.PageSize)
	totalItems := len(souls)

	// Build TabData for active tab
	params.Page = actualPage
	tabData := buildTabData(paginatedSouls, totalPages, &params)
	tabData.TotalItems = totalItems

	data := Data{
		ActiveTab: activeTab,
	}

	// Populate active tab data and set counts for other tabs
	switch activeTab {
	case TabTraining:
		data.TrainingTab = tabData
		data.ActiveSouls.TotalItems = len(activeSouls)
		data.RetiredTab.TotalItems = len(retiredSouls)
	case TabRetired:
		data.RetiredTab = tabData
		data.ActiveSouls.TotalItems = len(activeSouls)
		data.TrainingTab.TotalItems = len(trainingSouls)
	default:
		data.ActiveSouls = tabData
		data.TrainingTab.TotalItems = len(trainingSouls)
		data.RetiredTab.TotalItems = len(retiredSouls)
	}

	log.Debug().
		Int("total_souls", len(dbSouls)).
		Int("active_souls", len(activeSouls)).
		Int("training_souls", len(trainingSouls)).
		Int("retired_souls", len(retiredSouls)).
		Str("active_tab", activeTab).
		Int("page", params.Page).
		Int("page_size", params.PageSize).
		Str("search", params.SearchQuery).
		Str("filter_archetype", params.FilterArchetype).
		Msg("Dashboard souls retrieved successfully")

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
	}, handler.BaseLayout)
}

// categorizeSouls converts model souls to template souls and splits them by lifecycle state.
func categorizeSouls(dbSouls []models.Soul) (active, training, retired []Soul) {
	active = make([]Soul, 0)
	training = make([]Soul, 0)
	retired = make([]Soul, 0)

	for i := range dbSouls {
		dbSoul := &dbSouls[i]

		soul := Soul{
			ID:           dbSoul.ID,
			Name:         dbSoul.Name,
			Archetype:    dbSoul.Archetype,
			Temperament:  dbSoul.Temperament,
			SessionCount: dbSoul.SessionCount,
		}

		switch dbSoul.Status {
		case models.SoulStatusTraining:
			training = append(training, soul)
		case models.SoulStatusRetired:
			retired = append(retired, soul)
		default:
			active = append(active, soul)
		}
	}

	return active, training, retired
}

// filterSouls applies search and archetype filters to souls.
func filterSouls(souls []Soul, searchQuery, filterArchetype string) []Soul {
	// Apply search filter
	if searchQuery != "" {
		filtered := make([]Soul, 0)

		for _, soul := range souls {
			if strings.Contains(strings.ToLower(soul.Name), strings.ToLower(searchQuery)) {
				filtered = append(filtered, soul)
			}
		}

		souls = filtered
	}

	// Apply archetype filter
	if filterArchetype != "" {
		filtered := make([]Soul, 0)

		for _, soul := range souls {
			if soul.Archetype == filterArchetype {
				filtered = append(filtered, soul)
			}
		}

		souls = filtered
	}

	return souls
}

// sortSouls orders souls by field and direction.
func sortSouls(souls []Soul, sortField, sortOrder string) {
	switch sortField {
	case "name":
		sort.Slice(souls, func(i, j int) bool {
			if sortOrder == desc {
				return strings.ToLower(souls[i].Name) > strings.ToLower(souls[j].Name)
			}

			return strings.ToLower(souls[i].Name) < strings.ToLower(souls[j].Name)
		})
	case "archetype":
		sort.Slice(souls, func(i, j int) bool {
			if sortOrder == desc {
				return strings.ToLower(souls[i].Archetype) > strings.ToLower(souls[j].Archetype)
			}

			return strings.ToLower(souls[i].Archetype) < strings.ToLower(souls[j].Archetype)
		})
	case "sessions":
		sort.Slice(souls, func(i, j int) bool {
			if sortOrder == desc {
				return souls[i].SessionCount > souls[j].SessionCount
			}

			return souls[i].SessionCount < souls[j].SessionCount
		})
	}
}

// paginateSouls calculates pagination and returns the souls for the requested page.
func paginateSouls(souls []Soul, page, pageSize int) (paginatedSouls []Soul, totalPages, actualPage int) {
	totalItems := len(souls)

	totalPages = (totalItems + pageSize - 1) / pageSize

	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	var (
		startIdx = (page - 1) * pageSize
		endIdx   = startIdx + pageSize
	)

	if endIdx > totalItems {
		endIdx = totalItems
	}

	if startIdx < totalItems {
		paginatedSouls = souls[startIdx:endIdx]
	} else {
		paginatedSouls = []Soul{}
	}

	return paginatedSouls, totalPages, page
}

// buildTabData creates TabData with pagination information.
func buildTabData(souls []Soul, totalPages int, params *QueryParams) TabData {
	return TabData{
		Souls:           souls,
		CurrentPage:     params.Page,
		PageSize:        params.PageSize,
		TotalItems:      len(souls),
		TotalPages:      totalPages,
		HasPrevPage:     params.Page > 1,
		HasNextPage:     params.Page < totalPages,
		PrevPage:        params.Page - 1,
		NextPage:        params.Page + 1,
		SearchQuery:     params.SearchQuery,
		FilterArchetype: params.FilterArchetype,
		SortField:       params.SortField,
		SortOrder:       params.SortOrder,
	}
}
