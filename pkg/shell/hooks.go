package shell

import (
	"fmt"
	"strings"
)

// GenerateHook returns the shell integration snippet `mvx activate <shell>`
// prints: a prompt hook that calls `mvx env --shell <shell>` whenever the
// working directory changes, plus a matching deactivate function.
func GenerateHook(shellType, mvxPath string) (string, error) {
	switch shellType {
	case "bash":
		return generateBashHook(mvxPath), nil
	case "zsh":
		return generateZshHook(mvxPath), nil
	case "fish":
		return generateFishHook(mvxPath), nil
	case "powershell":
		return generatePowerShellHook(mvxPath), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s", shellType)
	}
}

func generateBashHook(mvxPath string) string {
	return fmt.Sprintf(`# mvx shell integration for bash
_mvx_original_prompt_command="$PROMPT_COMMAND"
_mvx_current_dir=""

_mvx_hook() {
  local dir="$PWD"
  local current_dir="$dir"
  if [ "$current_dir" != "$_mvx_current_dir" ]; then
    _mvx_current_dir="$current_dir"
    if [ -d "$dir/.mvx" ]; then
      local mvx_script
      mvx_script=$(%q env --shell bash)
      if [ -n "$mvx_script" ]; then
        eval "$mvx_script"
      fi
    fi
  fi
}

mvx_deactivate() {
  PROMPT_COMMAND="$_mvx_original_prompt_command"
  unset -f _mvx_hook
  unset -f mvx_deactivate
}

PROMPT_COMMAND="_mvx_hook${PROMPT_COMMAND:+; $PROMPT_COMMAND}"
`, mvxPath)
}

func generateZshHook(mvxPath string) string {
	return fmt.Sprintf(`# mvx shell integration for zsh
typeset -g _mvx_current_dir=""

_mvx_hook() {
  local dir="$PWD"
  local current_dir="$dir"
  if [[ "$current_dir" != "$_mvx_current_dir" ]]; then
    _mvx_current_dir="$current_dir"
    if [[ -d "$dir/.mvx" ]]; then
      local mvx_script
      mvx_script=$(%q env --shell zsh)
      if [[ -n "$mvx_script" ]]; then
        eval "$mvx_script"
      fi
    fi
  fi
}

mvx_deactivate() {
  unfunction _mvx_hook
  unfunction mvx_deactivate
}

autoload -Uz add-zsh-hook
add-zsh-hook precmd _mvx_hook
`, mvxPath)
}

func generateFishHook(mvxPath string) string {
	return fmt.Sprintf(`# mvx shell integration for fish
set -g _mvx_current_dir ""

function _mvx_hook --on-variable PWD
  set -l dir $PWD
  set -l current_dir $dir
  if test "$current_dir" != "$_mvx_current_dir"
    set -g _mvx_current_dir $current_dir
    if test -d "$dir/.mvx"
      set -l mvx_script (%q env --shell fish)
      if test -n "$mvx_script"
        eval $mvx_script
      end
    end
  end
end

function mvx_deactivate
  functions --erase _mvx_hook
  functions --erase mvx_deactivate
end

_mvx_hook
`, mvxPath)
}

func generatePowerShellHook(mvxPath string) string {
	escaped := strings.ReplaceAll(mvxPath, `\`, `\\`)
	return fmt.Sprintf(`# mvx shell integration for PowerShell
$global:_mvx_current_dir = ""

function global:_mvx_hook {
  $current_dir = (Get-Location).Path
  if ($current_dir -ne $global:_mvx_current_dir) {
    $global:_mvx_current_dir = $current_dir
    if (Test-Path (Join-Path $current_dir ".mvx")) {
      $mvx_script = & "%s" env --shell powershell
      if ($mvx_script) {
        Invoke-Expression ($mvx_script -join [Environment]::NewLine)
      }
    }
  }
}

function global:mvx-deactivate {
  Remove-Item Function:\_mvx_hook
  Remove-Item Function:\mvx-deactivate
}

function global:prompt {
  _mvx_hook
  "PS $($executionContext.SessionState.Path.CurrentLocation)$('>' * ($nestedPromptLevel + 1)) "
}
`, escaped)
}
