package engine_test

import (
	"errors"
	"testing"

	"github.com/warp/fiscal-engine/engine"
)

func TestRegistry_DuplicateNameIsRejected(t *testing.T) {
	reg := engine.NewRegistry()
	def := engine.Definition{
		Name: "salary", Entity: engine.PersonEntity,
		Type: engine.FloatValue, DefinitionPeriod: engine.GranularityMonth,
	}
	if err := reg.Register(def); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := reg.Register(def); !errors.Is(err, engine.ErrDuplicateVariable) {
		t.Errorf("second Register: want ErrDuplicateVariable, got %v", err)
	}
}

func TestRegistry_DefinitionValidation(t *testing.T) {
	tests := []struct {
		name string
		def  engine.Definition
	}{
		{"no name", engine.Definition{
			Entity: engine.PersonEntity, Type: engine.FloatValue,
			DefinitionPeriod: engine.GranularityMonth,
		}},
		{"bad entity", engine.Definition{
			Name: "x", Entity: "country", Type: engine.FloatValue,
			DefinitionPeriod: engine.GranularityMonth,
		}},
		{"bad period", engine.Definition{
			Name: "x", Entity: engine.PersonEntity, Type: engine.FloatValue,
			DefinitionPeriod: "week",
		}},
		{"enum without type", engine.Definition{
			Name: "x", Entity: engine.PersonEntity, Type: engine.EnumValue,
			DefinitionPeriod: engine.GranularityMonth,
		}},
		{"divisible bool", engine.Definition{
			Name: "x", Entity: engine.PersonEntity, Type: engine.BoolValue,
			DefinitionPeriod: engine.GranularityMonth, Divisible: true,
		}},
		{"divisible yearly", engine.Definition{
			Name: "x", Entity: engine.PersonEntity, Type: engine.FloatValue,
			DefinitionPeriod: engine.GranularityYear, Divisible: true,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := engine.NewRegistry().Register(tt.def); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestRegistry_NamesInRegistrationOrder(t *testing.T) {
	reg := engine.NewRegistry()
	for _, name := range []string{"salary", "pension", "age"} {
		reg.MustRegister(engine.Definition{
			Name: name, Entity: engine.PersonEntity,
			Type: engine.FloatValue, DefinitionPeriod: engine.GranularityMonth,
		})
	}
	names := reg.Names()
	want := []string{"salary", "pension", "age"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
