package chat

import (
	"fmt"
	"strings"

	"example.com/gymtag/internal/domain"
)

// FormatWorkoutContext serializes a workout into the textual snapshot sent
// to the provider. completed may be nil; when supplied, finished entries
// are marked so the assistant can reason about progress.
func FormatWorkoutContext(workout *domain.Workout, completed func(entryID string) bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Treino: %s\n", workout.Name)
	if workout.Description != "" {
		fmt.Fprintf(&b, "Descrição: %s\n", workout.Description)
	}
	b.WriteString("\nExercícios do Treino:\n")

	for i, entry := range workout.Entries {
		fmt.Fprintf(&b, "\n%d. %s", i+1, entry.Exercise.Name)
		if entry.Exercise.CategoryName != "" {
			fmt.Fprintf(&b, " (Categoria: %s)", entry.Exercise.CategoryName)
		}
		if completed != nil && completed(entry.ID) {
			b.WriteString(" [concluído]")
		}
		if entry.Exercise.Description != "" {
			fmt.Fprintf(&b, "\n   Descrição: %s", entry.Exercise.Description)
		}
		if entry.Series > 0 {
			fmt.Fprintf(&b, "\n   Séries: %d", entry.Series)
		}
		if entry.Reps != "" {
			fmt.Fprintf(&b, "\n   Repetições: %s", entry.Reps)
		}
		if entry.Rest != "" {
			fmt.Fprintf(&b, "\n   Descanso: %s", entry.Rest)
		}
		if entry.Note != "" {
			fmt.Fprintf(&b, "\n   Observação: %s", entry.Note)
		}
	}

	return b.String()
}

// FormatExerciseContext serializes one exercise for the provider.
func FormatExerciseContext(exercise *domain.Exercise) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Exercício: %s\n", exercise.Name)
	if exercise.CategoryName != "" {
		fmt.Fprintf(&b, "Categoria: %s\n", exercise.CategoryName)
	}
	if exercise.Description != "" {
		fmt.Fprintf(&b, "Descrição: %s\n", exercise.Description)
	}
	if exercise.YouTubeID != "" {
		fmt.Fprintf(&b, "Vídeo de demonstração disponível (ID: %s)\n", exercise.YouTubeID)
	}

	return b.String()
}
