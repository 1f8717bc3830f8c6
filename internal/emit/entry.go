package emit

import (
	"strings"
)

const argvGlobals = "namespace System { namespace Core {\n" +
	"int g_argc;\n" +
	"const char **g_argv;\n" +
	"}}\n"

// executableMain renders the executable bootstrap: runtime and library initializers,
// then the entry class's Main, or the service dispatcher when a service
// name is set.
func (e *Emitter) executableMain() string {
	o := e.opts
	var sb strings.Builder
	sb.WriteString(Marker)

	sb.WriteString("namespace Core {\n")
	for _, lib := range o.Libs() {
		sb.WriteString("extern void Library_" + lib + "_ctor();\n")
	}
	sb.WriteString("extern void Library_" + o.Target + "_ctor();\n")
	sb.WriteString("}\n")

	sb.WriteString(e.include())
	if o.Service != "" {
		sb.WriteString("#include <windows.h>\n")
		sb.WriteString(e.serviceHandlers())
	}

	sb.WriteString(argvGlobals)
	sb.WriteString("int main(int argc, const char **argv) {\n")
	sb.WriteString("void* local = nullptr;\n")
	sb.WriteString("Core::g_argc = argc;\n")
	sb.WriteString("Core::g_argv = argv;\n")
	sb.WriteString("Core::Object::GC_init(&local);\n")
	for _, lib := range o.Libs() {
		sb.WriteString("Core::Library_" + lib + "_ctor();\n")
	}
	sb.WriteString("Core::Library_" + o.Target + "_ctor();\n")
	if o.Service == "" {
		sb.WriteString(e.invokeMain("Main"))
	} else {
		sb.WriteString("void *ServiceTable[4];\n")
		sb.WriteString("ServiceTable[0] = (void*)\"" + o.Service + "\";\n")
		sb.WriteString("ServiceTable[1] = (void*)ServiceMain;\n")
		sb.WriteString("ServiceTable[2] = nullptr;\n")
		sb.WriteString("ServiceTable[3] = nullptr;\n")
		// returns once the service has stopped
		sb.WriteString("StartServiceCtrlDispatcher((LPSERVICE_TABLE_ENTRY)&ServiceTable);\n")
	}
	sb.WriteString("return 0;\n")
	sb.WriteString("}\n")
	return sb.String()
}

func (e *Emitter) serviceHandlers() string {
	var sb strings.Builder
	sb.WriteString("SERVICE_STATUS_HANDLE ServiceHandle;\n")

	sb.WriteString("void ServiceStatus(int state) {\n")
	sb.WriteString("  SERVICE_STATUS ss;\n")
	sb.WriteString("  ss.dwServiceType = SERVICE_WIN32;\n")
	sb.WriteString("  ss.dwWin32ExitCode = 0;\n")
	sb.WriteString("  ss.dwCurrentState = state;\n")
	sb.WriteString("  ss.dwControlsAccepted = SERVICE_ACCEPT_STOP;\n")
	sb.WriteString("  ss.dwServiceSpecificExitCode = 0;\n")
	sb.WriteString("  ss.dwCheckPoint = 0;\n")
	sb.WriteString("  ss.dwWaitHint = 0;\n")
	sb.WriteString("  SetServiceStatus(ServiceHandle, &ss);\n")
	sb.WriteString("}\n")

	sb.WriteString("void __stdcall ServiceControl(int OpCode) {\n")
	sb.WriteString("  switch (OpCode) {\n")
	sb.WriteString("  case SERVICE_CONTROL_STOP:\n")
	sb.WriteString("    ServiceStatus(SERVICE_STOPPED);\n")
	sb.WriteString("    " + e.opts.Main + "::ServiceStop();\n")
	sb.WriteString("    break;\n")
	sb.WriteString("  }\n")
	sb.WriteString("}\n")

	sb.WriteString("void __stdcall ServiceMain(int argc, char **argv) {\n")
	sb.WriteString("  ServiceHandle = RegisterServiceCtrlHandler(\"" + e.opts.Service +
		"\", (void (__stdcall *)(unsigned long))ServiceControl);\n")
	sb.WriteString("  ServiceStatus(SERVICE_RUNNING);\n")
	sb.WriteString(e.invokeMain("ServiceStart"))
	sb.WriteString("}\n")
	return sb.String()
}

// invokeMain builds the managed argument array and calls the entry method.
// Release builds catch everything so an uncaught exception is printed.
func (e *Emitter) invokeMain(name string) string {
	var sb strings.Builder
	sb.WriteString("Core::FixedArray$T<System::String*> *args = new(argc-1) Core::FixedArray$T<System::String*>(System::String::$GetType());\n")
	sb.WriteString("for(int a=1;a<argc;a++) {args->at(a-1) = Core::utf8ToString(argv[a]);}\n")
	if !e.opts.Debug {
		sb.WriteString("try {\n")
	}
	sb.WriteString(e.opts.Main + "::" + name + "(args);\n")
	if !e.opts.Debug {
		sb.WriteString("} catch (System::Exception *ex) {System::Console::WriteLine(Core::addstr(Core::utf16ToString(u\"Exception caught:\"), ex->ToString()));}\n")
		sb.WriteString("catch (...) {System::Console::WriteLine(Core::utf16ToString(u\"Unknown exception thrown\"));}\n")
	}
	return sb.String()
}

// libraryMain renders the exported LibraryMain entry of a library with an
// entry class.
func (e *Emitter) libraryMain() string {
	var sb strings.Builder
	sb.WriteString(Marker)
	sb.WriteString(e.include())
	sb.WriteString(argvGlobals)
	sb.WriteString("extern \"C\" {\n")
	sb.WriteString("__declspec(dllexport)")
	sb.WriteString("void LibraryMain(System::Object *obj) {\n")
	sb.WriteString(e.opts.Main + "::LibraryMain(obj);}\n")
	sb.WriteString("}\n")
	return sb.String()
}
