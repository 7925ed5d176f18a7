// Package utils holds the ambient plumbing shared by the ghpublish command:
// the Viper-backed ConfigurationLoader, the zap LoggerFactory and the
// FlushingWriter used for operator-facing output.
package utils
