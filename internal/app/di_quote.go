package app

import (
	"fmt"

	quoteHTTP "github.com/allisson/quotelink/internal/quote/http"
	quoteRepository "github.com/allisson/quotelink/internal/quote/repository"
	quoteUseCase "github.com/allisson/quotelink/internal/quote/usecase"
)

// QuoteRepository returns the CRM-backed quote repository.
func (c *Container) QuoteRepository() (quoteUseCase.QuoteRepository, error) {
	var err error
	c.quoteRepositoryInit.Do(func() {
		c.quoteRepository, err = c.initQuoteRepository()
		if err != nil {
			c.initErrors["quoteRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["quoteRepository"]; exists {
		return nil, storedErr
	}
	return c.quoteRepository, nil
}

// QuoteUseCase returns the quote acceptance workflow used by the public endpoints.
func (c *Container) QuoteUseCase() (quoteUseCase.QuoteUseCase, error) {
	var err error
	c.quoteUseCaseInit.Do(func() {
		c.quoteUseCase, err = c.initQuoteUseCase()
		if err != nil {
			c.initErrors["quoteUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["quoteUseCase"]; exists {
		return nil, storedErr
	}
	return c.quoteUseCase, nil
}

// QuoteHandler returns the quote HTTP handler.
func (c *Container) QuoteHandler() (*quoteHTTP.QuoteHandler, error) {
	var err error
	c.quoteHandlerInit.Do(func() {
		c.quoteHandler, err = c.initQuoteHandler()
		if err != nil {
			c.initErrors["quoteHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["quoteHandler"]; exists {
		return nil, storedErr
	}
	return c.quoteHandler, nil
}

func (c *Container) initQuoteRepository() (quoteUseCase.QuoteRepository, error) {
	client, err := c.CRMClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get crm client for quote repository: %w", err)
	}
	return quoteRepository.NewCRMQuoteRepository(client), nil
}

// newQuoteUseCase builds a quote workflow around the shared repository and token manager.
func (c *Container) newQuoteUseCase(trigger quoteUseCase.ArtifactTrigger) (quoteUseCase.QuoteUseCase, error) {
	repo, err := c.QuoteRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote repository for quote use case: %w", err)
	}

	tokens, err := c.TokenManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get token manager for quote use case: %w", err)
	}

	baseUseCase := quoteUseCase.NewQuoteUseCase(
		quoteUseCase.Config{RequireToken: c.config.RespondRequireToken},
		repo,
		tokens,
		trigger,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for quote use case: %w", err)
		}
		return quoteUseCase.NewQuoteUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initQuoteUseCase() (quoteUseCase.QuoteUseCase, error) {
	var trigger quoteUseCase.ArtifactTrigger
	if c.config.PDFOnAccept {
		dispatcher, err := c.Dispatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to get dispatcher for quote use case: %w", err)
		}
		trigger = dispatcher
	}
	return c.newQuoteUseCase(trigger)
}

func (c *Container) initQuoteHandler() (*quoteHTTP.QuoteHandler, error) {
	useCase, err := c.QuoteUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote use case for quote handler: %w", err)
	}
	return quoteHTTP.NewQuoteHandler(useCase, c.Logger()), nil
}
