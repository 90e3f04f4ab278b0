package program

// Phase 1: Foundation

var phase1Push1 = []Exercise{
	{Letter: "A1", Name: "Ring Dip (Elbows in)", TargetSets: "3-4", TargetReps: "6-8", Tempo: "30X1", Rest: "1:30"},
	{Letter: "B1", Name: "Archer Pushup (Alternating)", TargetSets: "3-4", TargetReps: "4-6 L&R", Tempo: "20X0", Rest: "1:30", IsUnilateral: true},
	{Letter: "C1", Name: "Chest Fly", TargetSets: "3", TargetReps: "8-10", Tempo: "30X0", Rest: "1:30"},
	{Letter: "D1", Name: "Tricep Dip", TargetSets: "3", TargetReps: "6-10", Tempo: "20X0", Rest: "1:30"},
	{Letter: "E1", Name: "Tricep Extension", TargetSets: "3", TargetReps: "8-10", Tempo: "30X1", Rest: "1:30"},
}

var phase1Pull1 = []Exercise{
	{Letter: "A1", Name: "Chinup (Regular/Tuck L/L-Sit)", TargetSets: "3-5", TargetReps: "6-8", Tempo: "30X2", Rest: "2:00-3:00"},
	{Letter: "B1", Name: "Bodyweight Row (Two arms)", TargetSets: "3-4", TargetReps: "10-15 L&R", Tempo: "20X1", Rest: "1:30", IsUnilateral: true},
	{Letter: "C1", Name: "Pelican Curl", TargetSets: "3", TargetReps: "5-8", Tempo: "30X0", Rest: "1:30"},
	{Letter: "D1", Name: "Face Pull", TargetSets: "3", TargetReps: "8-10", Tempo: "30X0", Rest: "1:30"},
	{Letter: "E1", Name: "Ring Rollout", TargetSets: "3", TargetReps: "8-10", Tempo: "40X0", Rest: "1:30"},
}

var phase1Push2 = []Exercise{
	{Letter: "A1", Name: "Ring Dip (Elbows in)", TargetSets: "3-4", TargetReps: "6-8", Tempo: "30X1", Rest: "1:30"},
	{Letter: "B1", Name: "Shoulder Pushup (Feet on floor)", TargetSets: "3-4", TargetReps: "4-8", Tempo: "30X1", Rest: "1:30"},
	{Letter: "C1", Name: "Bulgarian Pushup", TargetSets: "3-4", TargetReps: "6-10", Tempo: "20X0", Rest: "1:30"},
	{Letter: "D1", Name: "Shoulder Shrug (Back to wall)", TargetSets: "3-4", TargetReps: "8-12", Tempo: "2s iso", Rest: "1:30", IsTimed: true},
	{Letter: "E1", Name: "Tricep Dip", TargetSets: "3", TargetReps: "6-10", Tempo: "20X0", Rest: "1:30"},
}

var phase1Pull2 = []Exercise{
	{Letter: "A1", Name: "Mantle Chinup", TargetSets: "3-5", TargetReps: "4-6 L&R", Tempo: "30X2", Rest: "1:30", IsUnilateral: true},
	{Letter: "B1", Name: "Archer Bodyweight Row", TargetSets: "3-4", TargetReps: "4-8 L&R", Tempo: "20X0", Rest: "1:30", IsUnilateral: true},
	{Letter: "C1", Name: "Face Pull", TargetSets: "3", TargetReps: "8-10", Tempo: "20X0", Rest: "1:30"},
	{Letter: "D1", Name: "Bodyweight Bicep Curl", TargetSets: "3-4", TargetReps: "8-10", Tempo: "30X1", Rest: "1:30"},
}

// Phase 2: Development

var phase2Push1 = []Exercise{
	{Letter: "A1", Name: "Ring Dip (Elbows in)", TargetSets: "3-4", TargetReps: "8-10", Tempo: "30X1", Rest: "1:30"},
	{Letter: "B1", Name: "Archer Pushup (Alternating)", TargetSets: "3-4", TargetReps: "6-8 L&R", Tempo: "20X0", Rest: "1:30", IsUnilateral: true},
	{Letter: "C1", Name: "Chest Fly", TargetSets: "3", TargetReps: "8-12", Tempo: "30X0", Rest: "1:30"},
	{Letter: "D1", Name: "Tricep Dip", TargetSets: "3", TargetReps: "8-15", Tempo: "30X0", Rest: "1:30"},
	{Letter: "E1", Name: "Tricep Extension", TargetSets: "3-4", TargetReps: "8-12", Tempo: "30X1", Rest: "1:30"},
	{Letter: "F1", Name: "Diamond Pushup (Feet Elevated)", TargetSets: "1", TargetReps: "8-15! Down", Tempo: "30X1", Rest: "self", IsDownSeries: true},
}

var phase2Pull1 = []Exercise{
	{Letter: "A1", Name: "Wide Pullup (Tuck L)", TargetSets: "3-4", TargetReps: "6-12", Tempo: "30X0", Rest: "2:00-3:00"},
	{Letter: "B1", Name: "Archer Bodyweight Row", TargetSets: "3-4", TargetReps: "6-8 L&R", Tempo: "20X0", Rest: "1:30", IsUnilateral: true},
	{Letter: "C1", Name: "Pelican Curl", TargetSets: "3", TargetReps: "6-10", Tempo: "30X0", Rest: "1:30"},
	{Letter: "D1", Name: "Rear Delt Fly", TargetSets: "3", TargetReps: "8-12", Tempo: "30X0", Rest: "1:30"},
	{Letter: "E1", Name: "Ring Rollout", TargetSets: "3", TargetReps: "10-12", Tempo: "40X0", Rest: "1:30"},
}

var phase2Push2 = []Exercise{
	{Letter: "A1", Name: "Ring Dip (Bulgarian)", TargetSets: "3-4", TargetReps: "5-8", Tempo: "30X1", Rest: "1:30"},
	{Letter: "B1", Name: "Shoulder Pushup (Feet elevated)", TargetSets: "3-4", TargetReps: "6-10", Tempo: "40X1", Rest: "1:30"},
	{Letter: "C1", Name: "Bulgarian Pushup", TargetSets: "3-4", TargetReps: "8-10", Tempo: "30X1", Rest: "1:30"},
	{Letter: "D1", Name: "Shoulder Tap (Chest to wall)", TargetSets: "3-4", TargetReps: "30-45s", Tempo: "-", Rest: "1:30", IsTimed: true},
	{Letter: "E1", Name: "Tricep Dip", TargetSets: "3-4", TargetReps: "6-10", Tempo: "20X0", Rest: "1:30"},
}

var phase2Pull2 = []Exercise{
	{Letter: "A1", Name: "Archer Chinup (Alternating)", TargetSets: "4-6", TargetReps: "3-5 L&R", Tempo: "30X0", Rest: "1:30", IsUnilateral: true},
	{Letter: "B1", Name: "Single Arm Row", TargetSets: "3-4", TargetReps: "4-8 L&R", Tempo: "30X0", Rest: "1:30", IsUnilateral: true},
	{Letter: "C1", Name: "Face Pull", TargetSets: "3-4", TargetReps: "8-12", Tempo: "20X0", Rest: "1:30"},
	{Letter: "D1", Name: "Bodyweight Bicep Curl", TargetSets: "3-4", TargetReps: "8-12", Tempo: "30X1", Rest: "1:30"},
	{Letter: "E1", Name: "Two Arm Hang", TargetSets: "self", TargetReps: "2:00-4:00", Tempo: "Accumulation", Rest: "self", IsAccumulation: true, IsTimed: true},
}

// Phase 3: Peak Performance

var phase3Push1 = []Exercise{
	{Letter: "A1", Name: "Handstand Pushup (Chest to wall)", TargetSets: "20 mins", TargetReps: "Accumulation", Tempo: "30X1", Rest: "self", IsAccumulation: true},
	{Letter: "B1", Name: "Ring Dip (Bulgarian)", TargetSets: "3-5", TargetReps: "5-8", Tempo: "30X1", Rest: "2:00"},
	{Letter: "C1", Name: "Archer Pushup (Same Side)", TargetSets: "3-5", TargetReps: "6-8 L&R", Tempo: "30X1", Rest: "2:00", IsUnilateral: true},
	{Letter: "D1", Name: "Chest Fly", TargetSets: "4-5", TargetReps: "6-8", Tempo: "30X0", Rest: "2:00"},
	{Letter: "E1", Name: "Tricep Extension", TargetSets: "5-6", TargetReps: "5-6", Tempo: "30X1", Rest: "2:00"},
	{Letter: "F1", Name: "Tricep Dip", TargetSets: "3-4", TargetReps: "8-12", Tempo: "30X0", Rest: "2:00"},
}

var phase3Pull1 = []Exercise{
	{Letter: "A1", Name: "Wide Pullup (L-Sit)", TargetSets: "3-5", TargetReps: "5-8", Tempo: "30X0", Rest: "2:00-3:00"},
	{Letter: "B1", Name: "L-Row", TargetSets: "3-5", TargetReps: "3-8", Tempo: "30X0", Rest: "2:00"},
	{Letter: "C1", Name: "Pelican Curl", TargetSets: "3-4", TargetReps: "6-10", Tempo: "40X0", Rest: "2:00"},
	{Letter: "D1", Name: "Rear Delt Fly", TargetSets: "3-4", TargetReps: "8-15", Tempo: "30X0", Rest: "2:00"},
	{Letter: "E1", Name: "Ring Rollout", TargetSets: "3", TargetReps: "10-15", Tempo: "40X1", Rest: "2:00"},
}

var phase3Push2 = []Exercise{
	{Letter: "A1", Name: "Ring Dip (Elbows in)", TargetSets: "3-5", TargetReps: "8-12", Tempo: "30X1", Rest: "2:00"},
	{Letter: "B1", Name: "Shoulder Pushup (Feet Elevated)", TargetSets: "3-5", TargetReps: "6-10", Tempo: "30X1", Rest: "2:00"},
	{Letter: "C1", Name: "Bulgarian Pushup", TargetSets: "3-5", TargetReps: "10-15", Tempo: "30X1", Rest: "2:00"},
	{Letter: "D1", Name: "Waist Tap (Chest to wall)", TargetSets: "3-5", TargetReps: "30-45s", Tempo: "-", Rest: "2:00", IsTimed: true},
	{Letter: "E1", Name: "Tricep Dip", TargetSets: "3-4", TargetReps: "10-12", Tempo: "30X1", Rest: "2:00"},
	{Letter: "F1", Name: "Diamond Pushup (Feet Elevated)", TargetSets: "2", TargetReps: "8-12! Down", Tempo: "30X1", Rest: "self", IsDownSeries: true},
}

var phase3Pull2 = []Exercise{
	{Letter: "A1", Name: "Archer Chinup (Same side)", TargetSets: "3-5", TargetReps: "4-8 L&R", Tempo: "30X1", Rest: "1:30", IsUnilateral: true},
	{Letter: "B1", Name: "Single Arm Row", TargetSets: "3-5", TargetReps: "6-10 L&R", Tempo: "30X0", Rest: "2:00", IsUnilateral: true},
	{Letter: "C1", Name: "Face Pull", TargetSets: "3-4", TargetReps: "8-12", Tempo: "20X0", Rest: "2:00"},
	{Letter: "D1", Name: "Pelican Curl Negative", TargetSets: "3", TargetReps: "3-4", Tempo: "6-8s", Rest: "2:00"},
	{Letter: "E1", Name: "Bodyweight Bicep Curl", TargetSets: "3-4", TargetReps: "6-10", Tempo: "30X1", Rest: "2:00"},
	{Letter: "F1", Name: "One Arm Hang", TargetSets: "self", TargetReps: "2:00-4:00", Tempo: "Accumulation", Rest: "self", IsAccumulation: true, IsTimed: true},
}

// setRule rewrites a target-set string for the deload week. Strings not in
// the table become fallback; an empty fallback keeps the original.
type setRule struct {
	table    map[string]string
	fallback string
}

func (r setRule) apply(sets string) string {
	if v, ok := r.table[sets]; ok {
		return v
	}
	if r.fallback == "" {
		return sets
	}
	return r.fallback
}

func deload(src []Exercise, rule setRule) []Exercise {
	out := make([]Exercise, len(src))
	for i, e := range src {
		e.TargetSets = rule.apply(e.TargetSets)
		out[i] = e
	}
	return out
}

func dropLast(ex []Exercise) []Exercise  { return ex[:len(ex)-1] }
func dropFirst(ex []Exercise) []Exercise { return ex[1:] }

func sessions(push1, pull1, push2, pull2 []Exercise) map[SessionType]Session {
	return map[SessionType]Session{
		Push1: {Name: Push1, Exercises: push1},
		Pull1: {Name: Pull1, Exercises: pull1},
		Push2: {Name: Push2, Exercises: push2},
		Pull2: {Name: Pull2, Exercises: pull2},
	}
}

var programPhases = []Phase{
	{
		Phase:    1,
		Name:     "Foundation",
		Weeks:    WeeksPerPhase,
		Sessions: sessions(phase1Push1, phase1Pull1, phase1Push2, phase1Pull2),
		DeloadSessions: sessions(
			deload(phase1Push1, setRule{map[string]string{"3-4": "1-2"}, "2"}),
			deload(phase1Pull1, setRule{map[string]string{"3-5": "1-2", "3-4": "1-2"}, "2"}),
			deload(phase1Push2, setRule{map[string]string{"3-4": "1-2"}, "2"}),
			deload(phase1Pull2, setRule{map[string]string{"3-5": "1-2", "3-4": "1-2"}, "2"}),
		),
	},
	{
		Phase:    2,
		Name:     "Development",
		Weeks:    WeeksPerPhase,
		Sessions: sessions(phase2Push1, phase2Pull1, phase2Push2, phase2Pull2),
		DeloadSessions: sessions(
			deload(dropLast(phase2Push1), setRule{map[string]string{"3-4": "1-2"}, "2"}),
			deload(phase2Pull1, setRule{map[string]string{"3-4": "1-2"}, "2"}),
			deload(phase2Push2, setRule{map[string]string{"3-4": "1-2"}, "2"}),
			deload(dropLast(phase2Pull2), setRule{map[string]string{"4-6": "2", "3-4": "2"}, "self"}),
		),
	},
	{
		Phase:    3,
		Name:     "Peak Performance",
		Weeks:    WeeksPerPhase,
		Sessions: sessions(phase3Push1, phase3Pull1, phase3Push2, phase3Pull2),
		DeloadSessions: sessions(
			deload(dropFirst(phase3Push1), setRule{map[string]string{"3-5": "2", "4-5": "2", "5-6": "2", "3-4": "1-2"}, "2"}),
			deload(phase3Pull1, setRule{map[string]string{"3-5": "2", "3-4": "2", "3": "1-2"}, ""}),
			deload(dropLast(phase3Push2), setRule{map[string]string{"3-5": "2", "3-4": "1-2"}, ""}),
			deload(dropLast(phase3Pull2), setRule{map[string]string{"3-5": "2", "3-4": "2", "3": "1-2"}, ""}),
		),
	},
}

var exerciseDefinitions = []ExerciseDefinition{
	// Push
	{Name: "Ring Dip (Elbows in)", Category: CategoryPush, MuscleGroups: []string{"Chest", "Triceps", "Shoulders"}, DefaultTempo: "30X1", ExampleProgressions: []string{"Band assisted", "Negative only", "Full ROM", "RTO at top", "Weighted"}},
	{Name: "Ring Dip (Bulgarian)", Category: CategoryPush, MuscleGroups: []string{"Chest", "Triceps", "Shoulders"}, DefaultTempo: "30X1", ExampleProgressions: []string{"Partial ROM", "Full ROM", "Weighted"}},
	{Name: "Archer Pushup (Alternating)", Category: CategoryPush, MuscleGroups: []string{"Chest", "Triceps", "Shoulders"}, DefaultTempo: "20X0", ExampleProgressions: []string{"On knees", "Full", "Weighted vest"}},
	{Name: "Archer Pushup (Same Side)", Category: CategoryPush, MuscleGroups: []string{"Chest", "Triceps", "Shoulders"}, DefaultTempo: "30X1", ExampleProgressions: []string{"Partial ROM", "Full ROM"}},
	{Name: "Chest Fly", Category: CategoryPush, MuscleGroups: []string{"Chest"}, DefaultTempo: "30X0", ExampleProgressions: []string{"High rings", "Low rings", "Feet elevated"}},
	{Name: "Tricep Dip", Category: CategoryPush, MuscleGroups: []string{"Triceps"}, DefaultTempo: "20X0", ExampleProgressions: []string{"Feet on floor", "Legs straight", "Elevated"}},
	{Name: "Tricep Extension", Category: CategoryPush, MuscleGroups: []string{"Triceps"}, DefaultTempo: "30X1", ExampleProgressions: []string{"High rings", "Low rings"}},
	{Name: "Shoulder Pushup (Feet on floor)", Category: CategoryPush, MuscleGroups: []string{"Shoulders"}, DefaultTempo: "30X1", ExampleProgressions: []string{"Pike", "Feet elevated", "Wall assisted"}},
	{Name: "Shoulder Pushup (Feet elevated)", Category: CategoryPush, MuscleGroups: []string{"Shoulders"}, DefaultTempo: "40X1", ExampleProgressions: []string{"Low elevation", "High elevation", "Box"}},
	{Name: "Bulgarian Pushup", Category: CategoryPush, MuscleGroups: []string{"Chest", "Shoulders"}, DefaultTempo: "20X0", ExampleProgressions: []string{"Low rings", "Medium rings", "High rings"}},
	{Name: "Shoulder Shrug (Back to wall)", Category: CategoryPush, MuscleGroups: []string{"Shoulders", "Traps"}, DefaultTempo: "2s iso", ExampleProgressions: []string{"Partial", "Full shrug"}},
	{Name: "Shoulder Tap (Chest to wall)", Category: CategoryPush, MuscleGroups: []string{"Shoulders", "Core"}, DefaultTempo: "-", ExampleProgressions: []string{"Quick taps", "Slow holds"}},
	{Name: "Waist Tap (Chest to wall)", Category: CategoryPush, MuscleGroups: []string{"Shoulders", "Core"}, DefaultTempo: "-", ExampleProgressions: []string{"Quick taps", "Slow holds"}},
	{Name: "Diamond Pushup (Feet Elevated)", Category: CategoryPush, MuscleGroups: []string{"Triceps", "Chest"}, DefaultTempo: "30X1", ExampleProgressions: []string{"Floor", "Low elevation", "High elevation"}},
	{Name: "Handstand Pushup (Chest to wall)", Category: CategoryPush, MuscleGroups: []string{"Shoulders", "Triceps"}, DefaultTempo: "30X1", ExampleProgressions: []string{"Negatives only", "Partial ROM", "Full ROM", "Deficit"}},

	// Pull
	{Name: "Chinup (Regular/Tuck L/L-Sit)", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "30X2", ExampleProgressions: []string{"Band assisted", "Regular", "Tuck L", "L-Sit", "Weighted"}},
	{Name: "Wide Pullup (Tuck L)", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "30X0", ExampleProgressions: []string{"Regular grip", "Wide grip", "Tuck L"}},
	{Name: "Wide Pullup (L-Sit)", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps", "Core"}, DefaultTempo: "30X0", ExampleProgressions: []string{"Tuck L", "Straddle L", "Full L-Sit"}},
	{Name: "Mantle Chinup", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "30X2", ExampleProgressions: []string{"Assisted", "Full"}},
	{Name: "Archer Chinup (Alternating)", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "30X0", ExampleProgressions: []string{"Band assisted", "Full ROM"}},
	{Name: "Archer Chinup (Same side)", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "30X1", ExampleProgressions: []string{"Partial", "Full ROM"}},
	{Name: "Bodyweight Row (Two arms)", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "20X1", ExampleProgressions: []string{"High rings", "Low rings", "Feet elevated"}},
	{Name: "Archer Bodyweight Row", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "20X0", ExampleProgressions: []string{"High rings", "Low rings"}},
	{Name: "Single Arm Row", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps"}, DefaultTempo: "30X0", ExampleProgressions: []string{"High rings", "Low rings"}},
	{Name: "L-Row", Category: CategoryPull, MuscleGroups: []string{"Back", "Biceps", "Core"}, DefaultTempo: "30X0", ExampleProgressions: []string{"Tuck", "Straddle", "Full L"}},
	{Name: "Pelican Curl", Category: CategoryPull, MuscleGroups: []string{"Biceps"}, DefaultTempo: "30X0", ExampleProgressions: []string{"Partial ROM", "Full ROM", "Slow eccentric"}},
	{Name: "Pelican Curl Negative", Category: CategoryPull, MuscleGroups: []string{"Biceps"}, DefaultTempo: "6-8s", ExampleProgressions: []string{"4s negative", "6s negative", "8s negative"}},
	{Name: "Face Pull", Category: CategoryPull, MuscleGroups: []string{"Rear Delts", "Traps"}, DefaultTempo: "30X0", ExampleProgressions: []string{"Light angle", "Steep angle"}},
	{Name: "Rear Delt Fly", Category: CategoryPull, MuscleGroups: []string{"Rear Delts"}, DefaultTempo: "30X0", ExampleProgressions: []string{"High rings", "Low rings"}},
	{Name: "Ring Rollout", Category: CategoryPull, MuscleGroups: []string{"Core", "Lats"}, DefaultTempo: "40X0", ExampleProgressions: []string{"Knees", "Toes", "Standing"}},
	{Name: "Bodyweight Bicep Curl", Category: CategoryPull, MuscleGroups: []string{"Biceps"}, DefaultTempo: "30X1", ExampleProgressions: []string{"High rings", "Low rings"}},
	{Name: "Two Arm Hang", Category: CategoryPull, MuscleGroups: []string{"Grip", "Shoulders"}, DefaultTempo: "Accumulation", ExampleProgressions: []string{"Dead hang", "Active hang"}},
	{Name: "One Arm Hang", Category: CategoryPull, MuscleGroups: []string{"Grip", "Shoulders"}, DefaultTempo: "Accumulation", ExampleProgressions: []string{"Assisted", "Full"}},
}

var weeklySchedule = WeeklySchedule{
	Monday:    string(Push1),
	Tuesday:   Rest,
	Wednesday: string(Pull1),
	Thursday:  Rest,
	Friday:    string(Push2),
	Saturday:  string(Pull2),
	Sunday:    Rest,
}
