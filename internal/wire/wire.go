// Package wire provides dependency injection for the rota application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/rota/internal/adapters/persistence"
	"github.com/example/rota/internal/adapters/sqlite"
	"github.com/example/rota/internal/app"
	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/db"
	"github.com/example/rota/internal/ports/primary"
)

var (
	trackerService    primary.TrackerService
	assignmentService primary.AssignmentService
	sweepService      primary.SweepService
	requestService    primary.RequestService
	hoursService      primary.OfficeHoursService
	directoryService  primary.DirectoryService
	itemService       primary.ItemService
	settings          *config.Settings
	once              sync.Once
)

// TrackerService returns the singleton TrackerService instance.
func TrackerService() primary.TrackerService {
	once.Do(initServices)
	return trackerService
}

// AssignmentService returns the singleton AssignmentService instance.
func AssignmentService() primary.AssignmentService {
	once.Do(initServices)
	return assignmentService
}

// SweepService returns the singleton SweepService instance.
func SweepService() primary.SweepService {
	once.Do(initServices)
	return sweepService
}

// RequestService returns the singleton RequestService instance.
func RequestService() primary.RequestService {
	once.Do(initServices)
	return requestService
}

// OfficeHoursService returns the singleton OfficeHoursService instance.
func OfficeHoursService() primary.OfficeHoursService {
	once.Do(initServices)
	return hoursService
}

// DirectoryService returns the singleton DirectoryService instance.
func DirectoryService() primary.DirectoryService {
	once.Do(initServices)
	return directoryService
}

// ItemService returns the singleton ItemService instance.
func ItemService() primary.ItemService {
	once.Do(initServices)
	return itemService
}

// Settings returns the loaded engine configuration.
func Settings() *config.Settings {
	once.Do(initServices)
	return settings
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Load configuration
	dir, err := config.ConfigDir()
	if err != nil {
		log.Fatalf("failed to locate config directory: %v", err)
	}
	settings, err = config.Load(dir)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports)
	userRepo := sqlite.NewUserRepository(database)
	trackerRepo := sqlite.NewTrackerRepository(database)
	itemRepo := sqlite.NewWorkItemRepository(database)
	taskRepo := sqlite.NewTaskRepository(database)
	requestRepo := sqlite.NewRequestRepository(database)
	activityRepo := sqlite.NewActivityRepository(database)
	notifyRepo := sqlite.NewNotificationRepository(database)
	calendarRepo := sqlite.NewCalendarRepository(database)
	clock := persistence.NewSystemClock()

	// Create services (primary ports implementation)
	resolver := app.NewEligibilityResolver(userRepo, settings.ExcludedUserIDs)
	trackerService = app.NewTrackerService(trackerRepo, resolver, clock)
	hoursService = app.NewOfficeHoursService(calendarRepo, clock, settings)
	directoryService = app.NewDirectoryService(userRepo, notifyRepo, settings)
	assignmentService = app.NewAssignmentService(itemRepo, taskRepo, userRepo, activityRepo, notifyRepo, trackerService, resolver, clock, settings)
	sweepService = app.NewSweepService(taskRepo, itemRepo, activityRepo, notifyRepo, userRepo, trackerService, hoursService, resolver, clock, settings)
	requestService = app.NewRequestService(requestRepo, itemRepo, userRepo, activityRepo, notifyRepo, assignmentService, directoryService, clock, settings)
	itemService = app.NewItemService(itemRepo, taskRepo, activityRepo, clock)
}
