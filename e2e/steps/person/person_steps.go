package person

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	POSTRaw(path, body, contentType string) error
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	Expand(s string) string
}

// RegisterSteps registers person save/fetch step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &personSteps{tc: tc}

	ctx.Step(`^I save a person with external id "([^"]*)" name "([^"]*)" email "([^"]*)" born "([^"]*)"$`, steps.savePerson)
	ctx.Step(`^a person with external id "([^"]*)" named "([^"]*)" has been saved$`, steps.personHasBeenSaved)
	ctx.Step(`^I POST to "([^"]*)" with body:$`, steps.postWithBody)
	ctx.Step(`^I POST to "([^"]*)" with content type "([^"]*)" and body:$`, steps.postWithContentType)
	ctx.Step(`^I fetch person "([^"]*)"$`, steps.fetchPerson)
}

type personSteps struct {
	tc TestContext
}

func (s *personSteps) savePerson(ctx context.Context, id, name, email, born string) error {
	return s.tc.POST("/save", map[string]string{
		"external_id":   s.tc.Expand(id),
		"name":          name,
		"email":         email,
		"date_of_birth": born,
	})
}

func (s *personSteps) personHasBeenSaved(ctx context.Context, id, name string) error {
	if err := s.savePerson(ctx, id, name, "seed@example.com", "1990-01-01"); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("seeding %s: expected status 200 but got %d", id, status)
	}
	return nil
}

func (s *personSteps) postWithBody(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.POSTRaw(path, s.tc.Expand(body.Content), "application/json")
}

func (s *personSteps) postWithContentType(ctx context.Context, path, contentType string, body *godog.DocString) error {
	return s.tc.POSTRaw(path, s.tc.Expand(body.Content), contentType)
}

func (s *personSteps) fetchPerson(ctx context.Context, id string) error {
	return s.tc.GET("/"+s.tc.Expand(id), nil)
}
