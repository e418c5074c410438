package commands

import (
	"fmt"

	"tasksync/internal/service"
)

// resolveTask finds the task ref points at in a loaded collection and
// returns it with its 1-based position.
func resolveTask(tasks []service.Task, ref TaskRef) (int, service.Task, error) {
	if ref.ID != "" {
		for i, t := range tasks {
			if t.ID == ref.ID {
				return i + 1, t, nil
			}
		}
		return 0, service.Task{}, fmt.Errorf("task not found: %s", ref)
	}

	if ref.Num < 1 || ref.Num > len(tasks) {
		return 0, service.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return ref.Num, tasks[ref.Num-1], nil
}
