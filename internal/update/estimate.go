package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkotal/anchora/internal/estimate"
	"github.com/mkotal/anchora/internal/model"
)

func (m Model) handleEstimateKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "c":
		m.Estimate.Category = nextCategory(m.Estimate.Category)
		m.Estimate.Computed = false
		m.Status = StatusBar{Text: fmt.Sprintf("category: %s", m.Estimate.Category), IsError: false}
	case "+", "=":
		m.Estimate.SubSteps++
		m.Estimate.Computed = false
	case "-":
		if m.Estimate.SubSteps > 0 {
			m.Estimate.SubSteps--
		}
		m.Estimate.Computed = false
	case "enter":
		m.computeEstimate()
	}
	return m
}

func (m *Model) computeEstimate() {
	if m.History == nil {
		m.Status = StatusBar{Text: "no completion history available", IsError: true}
		return
	}
	if !m.LearningEnabled {
		m.Estimate.Result = nil
		m.Estimate.Computed = true
		m.Status = StatusBar{Text: "learning is disabled", IsError: false}
		return
	}
	m.Estimate.Result = estimate.Estimate(m.History.Snapshot(), m.Estimate.Category, m.Estimate.SubSteps, m.Sensitivity)
	m.Estimate.Computed = true
	if m.Estimate.Result == nil {
		m.Status = StatusBar{Text: fmt.Sprintf("not enough %s history for an estimate", m.Estimate.Category), IsError: false}
		return
	}
	m.Status = StatusBar{
		Text: fmt.Sprintf("estimate: %dm expected, %dm safe (%s)",
			m.Estimate.Result.P50Minutes, m.Estimate.Result.P90Minutes, m.Estimate.Result.Confidence),
		IsError: false,
	}
}

func nextCategory(cat model.EnergyCategory) model.EnergyCategory {
	all := model.AllEnergyCategories()
	for i, c := range all {
		if c == cat {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
