// Package cli builds the ghpublish command-line interface. It wires the Cobra
// root command to the publish workflow, loads layered configuration with Viper
// and creates the zap logger shared by every step.
package cli
