package project

// SampleDocument is the built-in project used by test mode, exercising
// the interesting corners: a vendor march extension, target-level option
// overlays, library nodes, a linker script and a special file with its
// own build command.
const SampleDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<CodeBlocks_project_file>
	<FileVersion major="1" minor="6" />
	<Project>
		<Option title="demo" />
		<Option compiler="riscv32-v2" />
		<Build>
			<Target title="Debug">
				<Option output="build/out/demo.elf" prefix_auto="1" extension_auto="0" />
				<Option object_output="build/obj/Debug" />
				<Compiler>
					<Add option="-g" />
					<Add option="-DDEBUG" />
				</Compiler>
				<Linker>
					<Add library="m" />
					<Add option="-T link/demo.ld" />
				</Linker>
			</Target>
		</Build>
		<Compiler>
			<Add option="-Wall" />
			<Add option="-march=rv32imacxcustom" />
			<Add option="-mjump-tables-in-text" />
			<Add directory="include" />
		</Compiler>
		<Linker>
			<Add option="-Wl,--gc-sections" />
			<Add directory="lib" />
		</Linker>
		<Unit filename="src/main.c">
			<Option compile="1" />
		</Unit>
		<Unit filename="src/drivers/uart.c" />
		<Unit filename="src/start.S" />
		<Unit filename="src/table.txt">
			<Option compile="1" />
			<Option compiler="riscv32-v2" use="1" buildCommand="$compiler $options -x c -c $file -o $(TARGET_OBJECT_DIR)/table.o" />
		</Unit>
		<Unit filename="include/demo.h" />
	</Project>
</CodeBlocks_project_file>
`
