/*
Copyright 2026 The Tunebench Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package service

// Operation name vocabulary shared by remote and local providers. An
// environment looks these up by name through a Registry; it never holds
// a typed reference to the provider that implements them.
const (
	OpHostProvision        = "host_provision"
	OpHostDeprovision      = "host_deprovision"
	OpHostStart            = "host_start"
	OpHostStop             = "host_stop"
	OpHostRestart          = "host_restart"
	OpWaitHostDeployment   = "wait_host_deployment"
	OpWaitHostOperation    = "wait_host_operation"
	OpRemoteExec           = "remote_exec"
	OpGetRemoteExecResults = "get_remote_exec_results"
	OpLocalExec            = "local_exec"
	OpUpload               = "upload"
	OpDownload             = "download"
	OpResolvePath          = "resolve_path"
	OpLoadConfig           = "load_config"
	OpBuildEnvironment     = "build_environment"
	OpBuildService         = "build_service"
)

// Param keys used across multiple operations.
const (
	ParamPollURL      = "poll_url"
	ParamPollInterval = "poll_interval"
	ParamCommand      = "command"
	ParamPath         = "path"
	ParamDestination  = "destination"
	ParamResultID     = "result_id"
	ParamStdout       = "stdout"
	ParamStderr       = "stderr"
	ParamExitCode     = "exit_code"
)
