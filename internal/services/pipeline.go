package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"github.com/maxaizer/lead-dorker/internal/logger"
	"github.com/maxaizer/lead-dorker/internal/metrics"
	"github.com/maxaizer/lead-dorker/internal/prompts"
	log "github.com/sirupsen/logrus"
	"time"
)

const (
	stepVariableExtraction    = "variable extraction"
	stepDescriptionGeneration = "description generation"
	stepRoleList              = "job roles generation"
	stepCompanyList           = "company names generation"
)

const previewSize = 10

type promptLoader interface {
	Load(name string) (string, error)
}

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type searchRunner interface {
	Run(ctx context.Context, queries []string, userQuery string) (SearchOutcome, error)
}

// PromptFiles names the prompt template used by each step.
type PromptFiles struct {
	VariableExtraction    string
	DescriptionGeneration string
	RoleList              string
	CompanyList           string
}

// Plan is everything the LLM steps produced for one user query.
type Plan struct {
	Variables    models.ExtractedVariables
	Descriptions models.Descriptions
	Roles        []string
	Companies    []string
	Queries      []string
}

type RunSummary struct {
	Plan    Plan
	Outcome SearchOutcome
}

type Pipeline struct {
	prompts   promptLoader
	llm       completer
	search    searchRunner
	files     PromptFiles
	validator *validator.Validate
}

func NewPipeline(prompts promptLoader, llm completer, search searchRunner, files PromptFiles) *Pipeline {
	return &Pipeline{
		prompts:   prompts,
		llm:       llm,
		search:    search,
		files:     files,
		validator: validator.New(),
	}
}

// Run plans the dork queries for userQuery and searches them.
func (p *Pipeline) Run(ctx context.Context, userQuery string) (*RunSummary, error) {

	plan, err := p.Plan(ctx, userQuery)
	if err != nil {
		return nil, err
	}

	outcome, err := p.search.Run(ctx, plan.Queries, userQuery)
	if err != nil {
		return nil, err
	}

	return &RunSummary{Plan: *plan, Outcome: outcome}, nil
}

// Plan runs the four LLM steps and expands their output into dork queries.
func (p *Pipeline) Plan(ctx context.Context, userQuery string) (*Plan, error) {

	log.Infof("processing query %q", userQuery)

	var plan Plan

	log.Info("step 1: variable extraction")
	err := p.runStep(ctx, stepVariableExtraction, p.files.VariableExtraction, func(template string) string {
		return prompts.RenderUserQuery(template, userQuery)
	}, &plan.Variables)
	if err != nil {
		return nil, err
	}
	if err = p.validator.Struct(plan.Variables); err != nil {
		return nil, &errs.SchemaError{Step: stepVariableExtraction, Err: err}
	}
	log.Infof("extracted variables: persona=%q company_type=%q location=%q",
		plan.Variables.Persona, plan.Variables.CompanyType, plan.Variables.Location)

	log.Info("step 2: description generation")
	err = p.runStep(ctx, stepDescriptionGeneration, p.files.DescriptionGeneration, bind(map[string]string{
		prompts.UserQueryKey: userQuery,
		"persona":            plan.Variables.Persona,
		"company_type":       plan.Variables.CompanyType,
		"location":           plan.Variables.Location,
	}), &plan.Descriptions)
	if err != nil {
		return nil, err
	}
	if err = p.validator.Struct(plan.Descriptions); err != nil {
		return nil, &errs.SchemaError{Step: stepDescriptionGeneration, Err: err}
	}
	log.Infof("persona description: %s", plan.Descriptions.PersonaDescription)
	log.Infof("company description: %s", plan.Descriptions.CompanyDescription)

	log.Info("step 3a: generating job roles")
	plan.Roles, err = p.runListStep(ctx, stepRoleList, p.files.RoleList, map[string]string{
		"persona_description":    plan.Descriptions.PersonaDescription,
		"occupation_description": plan.Descriptions.PersonaDescription,
	})
	if err != nil {
		return nil, err
	}
	logNumbered("job roles", plan.Roles)

	log.Info("step 3b: generating company names")
	plan.Companies, err = p.runListStep(ctx, stepCompanyList, p.files.CompanyList, map[string]string{
		"company_description": plan.Descriptions.CompanyDescription,
		"location":            plan.Variables.Location,
	})
	if err != nil {
		return nil, err
	}
	logNumbered("company names", plan.Companies)

	log.Info("step 4: generating dork queries")
	plan.Queries = GenerateDorkQueries(plan.Roles, plan.Companies)
	for i, query := range plan.Queries[:min(previewSize, len(plan.Queries))] {
		log.Infof("%3d. %s", i+1, query)
	}
	if len(plan.Queries) > previewSize {
		log.Infof("... and %d more queries", len(plan.Queries)-previewSize)
	}
	log.Infof("query generation summary: %d roles x %d companies = %d queries",
		len(plan.Roles), len(plan.Companies), len(plan.Queries))

	return &plan, nil
}

func (p *Pipeline) runListStep(ctx context.Context, step, promptFile string, values map[string]string) ([]string, error) {
	var list models.NameList
	if err := p.runStep(ctx, step, promptFile, bind(values), &list); err != nil {
		return nil, err
	}
	if err := p.validator.Var([]string(list), models.NameListRule); err != nil {
		return nil, &errs.SchemaError{Step: step, Err: err}
	}
	return list, nil
}

func bind(values map[string]string) func(string) string {
	return func(template string) string {
		return prompts.Render(template, values)
	}
}

// runStep loads and renders the prompt, calls the LLM and decodes the recovered JSON into out.
func (p *Pipeline) runStep(ctx context.Context, step, promptFile string, render func(string) string, out any) error {

	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
	}()

	template, err := p.prompts.Load(promptFile)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePrompt).Errorf("%s: %v", step, err)
		return fmt.Errorf("%s: %w", step, err)
	}

	response, err := p.llm.Complete(ctx, render(template))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", errs.ErrInterrupted, err)
		}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeLLMApi).Errorf("%s: error calling LLM API: %v", step, err)
		return fmt.Errorf("%s: %w", step, err)
	}
	log.Debugf("%s: AI response received", step)

	value, err := ParseJSONResponse(step, response)
	if err != nil {
		return err
	}

	if err = decodeInto(value, out); err != nil {
		return &errs.SchemaError{Step: step, Err: err}
	}
	return nil
}

func decodeInto(value any, out any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func logNumbered(title string, items []string) {
	log.Infof("%s (%d found):", title, len(items))
	for i, item := range items {
		log.Infof("%4d. %s", i+1, item)
	}
}
