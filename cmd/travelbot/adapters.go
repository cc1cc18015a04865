package main

import (
	structuredparser "travelbot/internal/agents/ai-conversation/structured-parser"
	"travelbot/internal/agents/travel-data/amadeus"
	"travelbot/internal/agents/travel-data/geocoder"
	"travelbot/internal/api"
	"travelbot/internal/common/logger"
	"travelbot/internal/session"
	"travelbot/internal/wizard"
)

// Logger adapters for packages that declare their own Logger interface
type parserLoggerAdapter struct {
	logger.Logger
}

func (a *parserLoggerAdapter) With(fields map[string]interface{}) structuredparser.Logger {
	return &parserLoggerAdapter{a.Logger.With(fields)}
}

type amadeusLoggerAdapter struct {
	logger.Logger
}

func (a *amadeusLoggerAdapter) With(fields map[string]interface{}) amadeus.Logger {
	return &amadeusLoggerAdapter{a.Logger.With(fields)}
}

type geocoderLoggerAdapter struct {
	logger.Logger
}

func (a *geocoderLoggerAdapter) With(fields map[string]interface{}) geocoder.Logger {
	return &geocoderLoggerAdapter{a.Logger.With(fields)}
}

type wizardLoggerAdapter struct {
	logger.Logger
}

func (a *wizardLoggerAdapter) With(fields map[string]interface{}) wizard.Logger {
	return &wizardLoggerAdapter{a.Logger.With(fields)}
}

type sessionLoggerAdapter struct {
	logger.Logger
}

func (a *sessionLoggerAdapter) With(fields map[string]interface{}) session.Logger {
	return &sessionLoggerAdapter{a.Logger.With(fields)}
}

type apiLoggerAdapter struct {
	logger.Logger
}

func (a *apiLoggerAdapter) With(fields map[string]interface{}) api.Logger {
	return &apiLoggerAdapter{a.Logger.With(fields)}
}
