package e2e

import (
	"github.com/cucumber/godog"

	"pidstore/e2e/steps/common"
	"pidstore/e2e/steps/person"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	person.RegisterSteps(ctx, tc)
}
