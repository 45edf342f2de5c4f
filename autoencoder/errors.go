package autoencoder

import "fmt"

// A ConfigError indicates an invalid hyperparameter.
// It is reported before any computation takes place.
type ConfigError struct {
	Param   string
	Message string
}

// Error returns a message naming the bad parameter.
func (c *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", c.Param, c.Message)
}

// A DivergenceError indicates that training produced a
// non-finite cost and was stopped.
//
// It is fatal for the run: the caller should lower the
// learning rate or change the initialization and restart
// from a fresh Net.
type DivergenceError struct {
	// Epoch and Batch identify the mini-batch at which the
	// divergence was detected.
	Epoch int
	Batch int

	// Cost is the non-finite cost value.
	Cost float64
}

// Error returns a message identifying where training
// diverged.
func (d *DivergenceError) Error() string {
	return fmt.Sprintf("training diverged at epoch %d, batch %d (cost %v)",
		d.Epoch, d.Batch, d.Cost)
}
