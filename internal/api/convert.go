package api

import (
	"beacon/internal/merge"
	"beacon/internal/resolution"
	"beacon/internal/roster"
	"beacon/internal/services"
)

// FromIndividual converts a roster record to its API representation.
func FromIndividual(ind *roster.Individual) Individual {
	if ind == nil {
		return Individual{}
	}

	dto := Individual{
		ID:               ind.ID,
		Name:             ind.Fields.Name,
		Age:              ind.Fields.Age.String(),
		HeightInches:     ind.Fields.HeightInches,
		WeightPounds:     ind.Fields.WeightPounds,
		SkinTone:         ind.Fields.SkinTone,
		Gender:           ind.Fields.Gender,
		SubstanceHistory: ind.Fields.SubstanceHistory,
		Notes:            ind.Fields.Notes,
		PhotoPath:        ind.PhotoPath,
		BaseUrgencyScore: ind.BaseUrgencyScore,
		UrgencyOverride:  ind.UrgencyOverride,
		DisplayScore:     ind.DisplayScore(),
		UrgencyBand:      string(ind.Band()),
	}
	for _, entry := range ind.PhotoHistory {
		dtoEntry := PhotoEntry{Path: entry.Path}
		if !entry.AttachedAt.IsZero() {
			dtoEntry.AttachedAt = entry.AttachedAt.UTC().Format(dateTimeFormat)
		}
		dto.PhotoHistory = append(dto.PhotoHistory, dtoEntry)
	}
	if !ind.CreatedAt.IsZero() {
		dto.CreatedAt = ind.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !ind.UpdatedAt.IsZero() {
		dto.UpdatedAt = ind.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	if !ind.LastSeenAt.IsZero() {
		dto.LastSeenAt = ind.LastSeenAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromIndividuals converts a slice of roster records into API DTOs.
func FromIndividuals(individuals []*roster.Individual) []Individual {
	if len(individuals) == 0 {
		return nil
	}
	out := make([]Individual, 0, len(individuals))
	for _, ind := range individuals {
		out = append(out, FromIndividual(ind))
	}
	return out
}

// FromInteraction converts one encounter to its API representation.
func FromInteraction(it *roster.Interaction) Interaction {
	if it == nil {
		return Interaction{}
	}
	dto := Interaction{
		ID:               it.ID,
		IndividualID:     it.IndividualID,
		WorkerID:         it.WorkerID,
		Location:         it.Location,
		Transcription:    it.Transcription,
		FieldDeltas:      it.FieldDeltas,
		DangerIndicators: it.DangerIndicators,
		PhotoPath:        it.PhotoPath,
	}
	if !it.CreatedAt.IsZero() {
		dto.CreatedAt = it.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromInteractions converts a slice of encounters into API DTOs.
func FromInteractions(interactions []*roster.Interaction) []Interaction {
	if len(interactions) == 0 {
		return nil
	}
	out := make([]Interaction, 0, len(interactions))
	for _, it := range interactions {
		out = append(out, FromInteraction(it))
	}
	return out
}

// FromComparisons converts merge comparisons into API DTOs.
func FromComparisons(comparisons []merge.FieldComparison) []Comparison {
	if len(comparisons) == 0 {
		return nil
	}
	out := make([]Comparison, 0, len(comparisons))
	for _, c := range comparisons {
		out = append(out, Comparison{
			Field:         c.Field,
			NewValue:      c.NewValue,
			ExistingValue: c.ExistingValue,
			Selected:      string(c.Selected),
			Conflict:      c.Conflict,
		})
	}
	return out
}

// FromPass converts an in-flight resolution pass into its API representation.
func FromPass(pass *resolution.Pass) Resolution {
	if pass == nil {
		return Resolution{}
	}
	dto := Resolution{
		ID:          pass.ID,
		Tier:        string(pass.Decision.Tier),
		CandidateID: pass.Decision.CandidateID,
		Confidence:  pass.Decision.Confidence,
		Warnings:    fromWarnings(pass.Warnings),
	}
	for _, m := range pass.Matches {
		dto.Matches = append(dto.Matches, Match{
			CandidateID:   m.CandidateID,
			Confidence:    m.Confidence,
			MatchedFields: m.MatchedFields,
		})
	}
	if pass.Merge != nil {
		dto.Comparisons = FromComparisons(pass.Merge.Comparisons())
	}
	return dto
}

// FromOutcome converts a committed pass into its API representation.
func FromOutcome(outcome *resolution.Outcome) Outcome {
	if outcome == nil {
		return Outcome{}
	}
	dto := Outcome{
		Action:     string(outcome.Action),
		Confidence: outcome.Confidence,
		Tier:       string(outcome.Tier),
		PhotoURL:   outcome.PhotoURL,
		Warnings:   fromWarnings(outcome.Warnings),
	}
	if outcome.Individual != nil {
		ind := FromIndividual(outcome.Individual)
		dto.Individual = &ind
	}
	return dto
}

// FromError translates a boundary failure into the user-facing shape.
func FromError(err error) Warning {
	desc := services.Describe(err)
	return Warning{
		Code:        string(desc.Code),
		UserMessage: desc.UserMessage,
		Retryable:   desc.Retryable,
	}
}

func fromWarnings(warnings []services.UserFacing) []Warning {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, Warning{
			Code:        string(w.Code),
			UserMessage: w.UserMessage,
			Retryable:   w.Retryable,
		})
	}
	return out
}
