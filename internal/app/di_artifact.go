package app

import (
	"fmt"

	artifactHTTP "github.com/allisson/quotelink/internal/artifact/http"
	artifactService "github.com/allisson/quotelink/internal/artifact/service"
	artifactUseCase "github.com/allisson/quotelink/internal/artifact/usecase"
)

// attemptsPerJob is how often the dispatcher tries a quote PDF before giving up.
const attemptsPerJob = 3

// Renderer returns the HTML-to-PDF renderer client.
func (c *Container) Renderer() artifactUseCase.Renderer {
	c.rendererInit.Do(func() {
		c.renderer = artifactService.NewRendererClient(
			artifactService.RendererConfig{
				URL:     c.config.RendererURL,
				Timeout: c.config.RendererTimeout,
			},
			nil,
			c.Logger(),
		)
	})
	return c.renderer
}

// QuoteSource returns the quote reader used by the PDF pipeline. It never schedules
// artifacts, so generation cannot queue more generation.
func (c *Container) QuoteSource() (artifactUseCase.QuoteSource, error) {
	var err error
	c.quoteSourceInit.Do(func() {
		c.quoteSource, err = c.newQuoteUseCase(nil)
		if err != nil {
			c.initErrors["quoteSource"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["quoteSource"]; exists {
		return nil, storedErr
	}
	return c.quoteSource, nil
}

// PDFUseCase returns the PDF artifact use case.
func (c *Container) PDFUseCase() (artifactUseCase.PDFUseCase, error) {
	var err error
	c.pdfUseCaseInit.Do(func() {
		c.pdfUseCase, err = c.initPDFUseCase()
		if err != nil {
			c.initErrors["pdfUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pdfUseCase"]; exists {
		return nil, storedErr
	}
	return c.pdfUseCase, nil
}

// Dispatcher returns the artifact job dispatcher. It must be started by the caller.
func (c *Container) Dispatcher() (*artifactUseCase.Dispatcher, error) {
	var err error
	c.dispatcherInit.Do(func() {
		c.dispatcher, err = c.initDispatcher()
		if err != nil {
			c.initErrors["dispatcher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatcher"]; exists {
		return nil, storedErr
	}
	return c.dispatcher, nil
}

// PDFHandler returns the PDF HTTP handler.
func (c *Container) PDFHandler() (*artifactHTTP.PDFHandler, error) {
	var err error
	c.pdfHandlerInit.Do(func() {
		c.pdfHandler, err = c.initPDFHandler()
		if err != nil {
			c.initErrors["pdfHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pdfHandler"]; exists {
		return nil, storedErr
	}
	return c.pdfHandler, nil
}

func (c *Container) initPDFUseCase() (artifactUseCase.PDFUseCase, error) {
	quotes, err := c.QuoteSource()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote source for pdf use case: %w", err)
	}

	baseUseCase := artifactUseCase.NewPDFUseCase(
		artifactUseCase.PDFConfig{QuotePageURL: c.config.QuotePageURL},
		quotes,
		c.Renderer(),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for pdf use case: %w", err)
		}
		return artifactUseCase.NewPDFUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initDispatcher() (*artifactUseCase.Dispatcher, error) {
	processor, err := c.PDFUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get pdf use case for dispatcher: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for dispatcher: %w", err)
	}

	// One attempt reads the quote, renders it and uploads the file, each possibly after a
	// token refresh.
	jobTimeout := c.config.RendererTimeout + 3*c.config.CRMRequestTimeout

	return artifactUseCase.NewDispatcher(
		artifactUseCase.DispatcherConfig{
			Workers:     c.config.ArtifactWorkers,
			QueueSize:   c.config.ArtifactQueueSize,
			MaxAttempts: attemptsPerJob,
			JobTimeout:  jobTimeout,
		},
		processor,
		businessMetrics,
		c.Logger(),
	), nil
}

func (c *Container) initPDFHandler() (*artifactHTTP.PDFHandler, error) {
	useCase, err := c.PDFUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get pdf use case for pdf handler: %w", err)
	}
	return artifactHTTP.NewPDFHandler(useCase, c.Logger()), nil
}
