package scaffold

// Fixed contents written over the scaffolder-generated frontend files.

const tailwindConfig = `/** @type {import('tailwindcss').Config} */
export default {
  content: [
    "./index.html",
    "./src/**/*.{js,ts,jsx,tsx}",
  ],
  theme: {
    extend: {},
  },
  plugins: [],
}
`

const globalStylesheet = `@tailwind base;
@tailwind components;
@tailwind utilities;
`
